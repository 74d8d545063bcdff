package format

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/asterite/llvm/parse"
)

const sample = `
func main(p, u unique)
entry:
	a = alloc 16
	c = cast a
	o = offset c, 8
	l = load p
	s = select l, a, p
	store a, p
	call retain(a, p)
	bcond l, ne, loop
loop:
	m = phi [entry: a, loop: m]
	b loop
`

// Formatting renames values to their ids, so stability is checked over a
// second round trip.
func TestRoundTrip(t *testing.T) {
	ctx := context.Background()

	p, err := parse.Package(ctx, "sample.ir", []byte(sample))
	require.NoError(t, err)

	b, err := Format(ctx, nil, p)
	require.NoError(t, err)

	p2, err := parse.Package(ctx, "sample2.ir", b)
	require.NoError(t, err)

	b2, err := Format(ctx, nil, p2)
	require.NoError(t, err)

	require.Equal(t, string(b), string(b2))
}

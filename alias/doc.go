/*

Package alias decides whether two pointer values of a value graph can
refer to the same runtime object.

The analysis is built for uniquely allocated, reference counted objects:
clients elide ownership bookkeeping only when MayAlias answers false, so
false must mean provably distinct, while true may be over-reported.

Queries are memoized per Analysis instance. A query recursing into itself
through a cycle of phi or select values finds its own pending cache entry
and stops with the conservative answer. Escape checks walk the use graph
with an explicit worklist, never recursion; related-query depth follows
the structural nesting of phi and select chains and is not guarded, the
inputs being compiler internal.

*/
package alias

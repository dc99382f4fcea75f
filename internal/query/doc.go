// Package query builds vendor-correct, parameterized SQL from a tree of
// short-lived builder nodes.
//
// ARCHITECTURE:
//
// Statements (Select, InsertInto, Update, DeleteFrom) are configured through
// chainable calls and rendered in one pre-order pass into a shared
// RenderContext, which accumulates three parallel outputs:
//
//	SQL text     placeholders come from the dialect (? or $n)
//	Args         one display value per placeholder (nil for deferred values)
//	Binders      one binding.Binder per placeholder, run at execution time
//
// Render returns the result as a Rendered value. len(Args) == len(Binders)
// always holds for a successful render.
//
// WHERE TREES:
//
// An Expression is a single Criteria leaf or a wrapped sub-expression,
// followed by an ordered chain of AND/OR continuations. Rendering is
// strictly left to right; nesting is explicit through Wrap:
//
//	Cond(a).And(b).Or(c)            a AND b OR c
//	Cond(a).AndExpr(Wrap(Cond(b).Or(c)))   a AND (b OR c)
//
// VALUES:
//
// Every bound value is a Value, a closed variant with three shapes:
//
//	Val(v)        eager value; a binder is generated (vendor overrides first)
//	Deferred(b)   binder only; value materializes at execution, display arg is nil
//	Sub(select)   nested SELECT inlined in parentheses, its args spliced in place
//
// ERRORS:
//
// Node Render methods return nothing. A node rendered with missing or
// contradictory configuration records ErrMalformedQuery in the context and
// Render reports it. Malformed queries are programming errors and are never
// retried.
//
// THREAD SAFETY:
//
// Nodes are not safe for concurrent use. Build and render a tree on one
// goroutine and treat it as consumed afterwards.
package query

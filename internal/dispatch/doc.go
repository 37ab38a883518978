// Package dispatch provides the request-to-handler resolution engine.
// Given an incoming request path it locates the registered handler
// ("action") that should process it, supplies the unmatched trailing
// path segments as arguments, and offers a controlled nested invocation
// mechanism for handlers to delegate work to other handlers within the
// same request. It also performs the inverse operation: given an action
// and a capture set, produce the canonical path that routes to it.
//
// # Overview
//
// The engine is built from several cooperating pieces:
//
//  1. Action: an immutable descriptor of a registered handler.
//  2. ActionContainer and the namespace tree: a slash-keyed hierarchy of
//     containers, each owning the actions declared in one namespace.
//  3. DispatchType: a pluggable matching strategy. Built-ins cover
//     index, literal path, regex, chained and default matching; custom
//     strategies register through RegisterDispatchType and load with a
//     "+" prefixed name.
//  4. The resolver: longest-match-wins path resolution by backward
//     peeling, where unmatched trailing segments become positional
//     arguments to the action that matched a shorter prefix.
//  5. The delegation verbs: Forward, Detach, Visit and Jump, which let
//     a running handler hand control to another one with four distinct
//     control-flow contracts.
//
// # Lifecycle
//
// All registration happens during a single-threaded setup phase:
// preload dispatch types are instantiated, every registered component's
// RegisterActions hook runs, then postload types are appended. After
// SetupActions returns, the namespace tree, the action registry and the
// dispatch type list are immutable and safe for unsynchronized
// concurrent reads by any number of in-flight requests.
//
// Per-request state (resolved action, arguments, captures, the active
// action stack) lives on a Context and must not be shared between
// requests. Visit and Jump mutate that state under a save/restore scope
// that holds on every exit path, including abort unwinds.
//
// # Aborts
//
// Detach and Jump exit non-locally by panicking with an Abort value.
// Abort is a control-flow signal, not an error: intermediate recover
// blocks must re-raise it (RecoverAbort does this), and only the
// request boundary consumes it. Two scopes exist so the boundary can
// tell a handler-chain abort (Detach) from a whole-request abort (Jump).
//
// Example usage:
//
//	d := dispatch.New(dispatch.Options{})
//	d.RegisterComponent("Root", rootController)
//	if err := d.SetupActions(); err != nil {
//		log.Fatal(err)
//	}
//
//	c := dispatch.NewContext(ctx, d, dispatch.NewRequest("/user/profile/42"))
//	if d.PrepareAction(c) {
//		d.Dispatch(c)
//	}
package dispatch

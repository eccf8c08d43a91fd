// Package store implements a unidirectional data-flow state container.
//
// A Store owns exactly one state value. The only way to change it is
// Dispatch, which runs the configured Reducer and then notifies every
// subscriber synchronously, in registration order, before returning.
//
// Reducers are pure functions of (previous state, action). A nil previous
// state means "not yet initialized" and each reducer supplies its own
// default. Combine builds a record-level reducer out of independent field
// reducers, all fed the same action.
package store

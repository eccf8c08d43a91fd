package store

// FieldReducer reduces a single field of the record S.
type FieldReducer[S, A any] interface {
	reduceInto(prev, next *S, action A)
}

type field[S, F, A any] struct {
	lens    func(*S) *F
	reducer Reducer[F, A]
}

// Field binds a field accessor to the reducer that owns that field. The
// accessor must return a pointer into the record it is given.
func Field[S, F, A any](lens func(*S) *F, reducer Reducer[F, A]) FieldReducer[S, A] {
	return field[S, F, A]{lens: lens, reducer: reducer}
}

func (f field[S, F, A]) reduceInto(prev, next *S, action A) {
	var cur *F
	if prev != nil {
		cur = f.lens(prev)
	}
	*f.lens(next) = f.reducer(cur, action)
}

// Combine returns a reducer that builds a fresh S by running every field
// reducer against the same action. Fields without a FieldReducer are left
// at their zero value. When the previous record is nil each field reducer
// receives nil and falls back to its own default.
func Combine[S, A any](fields ...FieldReducer[S, A]) Reducer[S, A] {
	return func(state *S, action A) S {
		var next S
		for _, f := range fields {
			f.reduceInto(state, &next, action)
		}
		return next
	}
}

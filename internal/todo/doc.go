// Package todo holds the todo list domain: state, actions, reducers and the
// visibility query, plus the JSON snapshot format used for export/import.
//
// State is a record of two independently reduced fields:
//
//	todos             ReduceTodos             default []
//	visibility_filter ReduceVisibilityFilter  default SHOW_ALL
//
// Reduce combines them with store.Combine, feeding every action to both.
//
// # Actions
//
//   - ADD_TODO {id, text}: append {id, text, completed: false}
//   - TOGGLE_TODO {id}: flip completed on the matching todo
//   - SET_VISIBILITY_FILTER {filter}: replace the filter verbatim
//
// Any other action type leaves the state unchanged.
//
// # Snapshot Format
//
// Snapshots follow the embedded todo.schema.json:
//
//	{
//	  "schema_version": 1,
//	  "exported_at": "2024-01-01T00:00:00Z",
//	  "state": {
//	    "todos": [
//	      {"id": 0, "text": "Buy milk", "completed": false}
//	    ],
//	    "visibility_filter": "SHOW_ALL"
//	  }
//	}
//
// Snapshots are written with 2-space indentation and a trailing newline.
package todo

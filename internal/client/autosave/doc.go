// Package autosave persists a rapidly-changing document without duplicate
// server-side records, without losing edits made while a save is in flight,
// and without saving on every keystroke.
//
// Each open editor owns one Coordinator. Edits re-arm a debounce timer;
// when it elapses the latest values are saved. A per-document save lock
// keeps at most one save in flight, buffering the newest superseded edit
// for an immediate follow-up save. The first successful save of a new
// document adopts the server-assigned identifier, so exactly one creation
// call can ever happen.
//
// Failed saves keep the user's edits in memory and park the editor in
// StatusError until the next edit or an explicit SaveNow resubmits them.
package autosave

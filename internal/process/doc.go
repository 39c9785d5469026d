// Package process spawns and supervises a single external encoder process.
//
// Proc wraps os/exec for one-shot subprocess management:
//   - Completion signalling via a Done channel that carries the exit error
//   - Graceful shutdown with SIGINT and a configurable timeout, so the
//     encoder can finalize its output container before any hard kill
//   - Force kill of the whole process group if graceful shutdown times out
//   - Kill is safe to call after the process has exited
//   - Output streaming with pluggable log-level parsing
//   - Optional stderr capture for diagnostic-output scanning (device
//     discovery runs ffmpeg in list mode and reads its stderr as text)
//
// There is no restart or retry machinery: a recording or transcode stage
// runs exactly one process, and a failure propagates to the caller.
package process

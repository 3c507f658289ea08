// Package logger wraps zap for the launcher:
//   - a global sugared logger with a console encoder, where errors go to stderr
//     and everything else to stdout,
//   - context helpers (ToContext/FromContext/WithName/WithKV),
//   - level parsing used by the settings file.
//
// Every service takes a context and pulls its logger from it.
package logger

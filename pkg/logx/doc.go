// Package logx configures weave's structured logging.
//
// Components take a *zerolog.Logger in their Config; logx builds one from a
// small Config:
//   - Console output readable (short timestamp, key=value fields)
//   - Otherwise JSON lines, one event per line
package logx

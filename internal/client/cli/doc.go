// Package cli provides the interactive oibkeeper command-line client.
//
// An App wraps a services.OIBService together with an input reader and an
// output writer. It runs either as a REPL (App.Run), which shows the current
// identifier and reads commands until exit, or as a one-shot runner
// (App.Exec) used when commands are given on the command line.
//
// Commands:
//   - help                  show available commands
//   - generate | g          generate a new identifier
//   - list | l              pinned entries, then the history, newest first
//   - search | s <term>     list entries containing term
//   - pin | unpin <value>   change the pinned flag of an entry
//   - copy | c [value]      copy value, or the current identifier
//   - verify <value>        check the control digit
//   - clear [yes]           drop unpinned entries (asks unless "yes")
//   - clearall [yes]        drop everything, pinned entries too
//   - exit | quit           leave the REPL
//
// The prompt is printed only when input comes from a terminal.
package cli

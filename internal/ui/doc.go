// Package ui renders the styled terminal output of the iosxe-cfg commands.
//
// Components are plain lipgloss renderings that print once:
//
//   - Header: banner naming the operation, the command and the target switch
//   - Result: success, partial (warning) and failure boxes with ordered details
//   - ConfirmChange: typed confirmation before a change that can cut the session
//
// FailureFromError turns a restconf error into a failure box with the
// troubleshooting hints for its kind. OutcomeResult renders an interface
// change, showing a partial outcome as a warning.
//
// Example:
//
//	p := ui.NewPrinter(os.Stdout)
//	p.PrintHeader(ui.NewHeader("Set hostname", "iosxe-cfg hostname set core-sw1",
//	    ui.Detail{Key: "Device", Value: "10.0.0.1"}))
//	ok, err := client.SetHostname(ctx, "core-sw1")
//	if err != nil {
//	    p.PrintError("Hostname not updated", err)
//	}
//
// zap logging stays silent unless IOSXE_LOG_LEVEL is set, so log lines do
// not interleave with these boxes.
package ui

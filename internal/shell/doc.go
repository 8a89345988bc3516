// Package shell is the interactive menu of iosxe-cfg.
//
// The menu is a finite dispatch table: Commands maps each Choice to the
// fields it prompts for and a Run function that returns an Outcome. Run
// functions never print; the bubbletea Model collects input, runs the command
// off the UI goroutine and renders the Outcome with the ui package. A failed
// command returns to the menu like any other.
//
// Dispatch can be used without the terminal UI:
//
//	o := shell.Dispatch(ctx, client, shell.ConfigureVLAN, shell.Input{
//	    shell.FieldVLANID:   "100",
//	    shell.FieldVLANName: "eng",
//	})
//	fmt.Println(o.Result().Render())
package shell

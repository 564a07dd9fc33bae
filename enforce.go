package licensegate

import (
	"context"
	"fmt"
	"io"
	"os"
)

// EnforceOptions configures Enforce. The zero value exits the process
// with status 1 and writes the diagnostic line to stderr.
type EnforceOptions struct {
	// ExitStatus is the status passed to Exit on failure. 0 means 1.
	ExitStatus int

	// Output receives the single diagnostic line. Defaults to stderr.
	Output io.Writer

	// Exit terminates the process. Defaults to os.Exit. Tests inject
	// a recorder here.
	Exit func(int)
}

// Enforce validates key and terminates the host process on any invalid
// result or error. It is a one-line policy on top of ValidateLicense:
// the machine id comes from configuration, auto-generated when the
// configuration asks for it.
func (c *Client) Enforce(ctx context.Context, key string, opts *EnforceOptions) *Result {
	if opts == nil {
		opts = &EnforceOptions{}
	}
	output := opts.Output
	if output == nil {
		output = os.Stderr
	}
	exit := opts.Exit
	if exit == nil {
		exit = os.Exit
	}
	status := opts.ExitStatus
	if status == 0 {
		status = 1
	}

	machineID := c.cfg.MachineID
	if machineID == "" && c.cfg.AutoGenerateMachineID {
		machineID = c.generator.MachineID(ctx)
	}

	result, err := c.ValidateLicense(ctx, key, machineID, "")
	switch {
	case err != nil:
		fmt.Fprintf(output, "license validation failed: %v\n", err)
		exit(status)
		return nil
	case !result.Valid:
		reason := result.ErrorMessage
		if reason == "" {
			reason = "license is not valid"
		}
		fmt.Fprintf(output, "license validation failed: %s\n", reason)
		exit(status)
		return result
	}
	return result
}

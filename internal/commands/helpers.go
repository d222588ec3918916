package commands

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"ptask/internal/exitcode"
	"ptask/internal/screens"
	"ptask/internal/service"
)

// errNoInput is returned when a prompt has nothing to read from.
var errNoInput = errors.New("no input")

// reportError prints err and maps it to an exit code.
func reportError(errOut io.Writer, err error) int {
	switch {
	case service.IsUnauthorized(err):
		fmt.Fprintln(errOut, "error: session expired (run: ptask login)")
		return exitcode.AuthError
	case screens.IsValidation(err):
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	default:
		fmt.Fprintf(errOut, "error: backend error: %s\n", errorText(err))
		return exitcode.BackendError
	}
}

// errorText prefers a screen's message, then the server's, then err itself.
func errorText(err error) string {
	var reqErr *screens.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.Msg
	}
	return service.Message(err, err.Error())
}

// reportAuthError is reportError for login and register, where a rejection
// means bad input rather than an expired session.
func reportAuthError(errOut io.Writer, err error) int {
	fmt.Fprintf(errOut, "error: %v\n", err)
	if screens.IsValidation(err) {
		return exitcode.UserError
	}
	return exitcode.AuthError
}

// parseID parses a positive numeric identifier.
func parseID(kind, s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid %s id: %s", kind, s)
	}
	return id, nil
}

// parseProjectAndTask parses "<project-id> <task-id>".
func parseProjectAndTask(args []string) (projectID, taskID int64, err error) {
	if len(args) < 2 {
		return 0, 0, errors.New("project id and task id required")
	}
	if len(args) > 2 {
		return 0, 0, fmt.Errorf("unexpected argument: %s", args[2])
	}
	if projectID, err = parseID("project", args[0]); err != nil {
		return 0, 0, err
	}
	if taskID, err = parseID("task", args[1]); err != nil {
		return 0, 0, err
	}
	return projectID, taskID, nil
}

// readLine prints prompt to errOut and reads one line from in.
func readLine(in io.Reader, errOut io.Writer, prompt string) (string, error) {
	if in == nil {
		return "", errNoInput
	}
	fmt.Fprint(errOut, prompt)
	sc := bufio.NewScanner(in)
	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return "", err
		}
		return "", errNoInput
	}
	return strings.TrimRight(sc.Text(), "\r"), nil
}

// promptConfirm returns a screens.Confirm that asks on errOut and reads y/N
// from in. Anything but "y" or "yes" declines.
func promptConfirm(in io.Reader, errOut io.Writer) screens.Confirm {
	return func(question string) bool {
		answer, err := readLine(in, errOut, question+" [y/N] ")
		if err != nil {
			return false
		}
		switch strings.ToLower(strings.TrimSpace(answer)) {
		case "y", "yes":
			return true
		default:
			return false
		}
	}
}

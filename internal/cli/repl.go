package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/urbanmobility/internal/common"
	"github.com/dmitrijs2005/urbanmobility/internal/logging"
	"github.com/dmitrijs2005/urbanmobility/internal/rbac"
)

// execIface is the command surface the REPL dispatches to. App satisfies it;
// tests use a stub.
type execIface interface {
	role() rbac.Role
	Whoami(ctx context.Context) error
	ChangePassword(ctx context.Context) error
	Users(ctx context.Context, args []string) error
	Scooters(ctx context.Context, args []string) error
	Travellers(ctx context.Context, args []string) error
	Logs(ctx context.Context, args []string) error
}

type helpLine struct {
	role rbac.Role
	text string
}

var helpLines = []helpLine{
	{rbac.ServiceEngineer, "whoami                          show the logged-in account"},
	{rbac.ServiceEngineer, "passwd                          change your password"},
	{rbac.ServiceEngineer, "scooters list|search <term>|show <id>|update <id>"},
	{rbac.SystemAdmin, "scooters add|delete <id>"},
	{rbac.SystemAdmin, "users list|show <name>|add|edit <name>|reset <name>|delete <name>"},
	{rbac.SystemAdmin, "travellers list|search <term>|show <id>|add|edit <id>|delete <id>"},
	{rbac.SystemAdmin, "logs [suspicious]               read the audit log"},
	{rbac.ServiceEngineer, "exit | quit                     leave the console"},
}

func printHelp(r rbac.Role, out io.Writer) {
	fmt.Fprintln(out, "Available commands:")
	for _, h := range helpLines {
		if r.Satisfies(h.role) {
			fmt.Fprintln(out, "  "+h.text)
		}
	}
}

// runREPL reads one command per line and dispatches it to a. It returns on
// end of input or when the operator types exit or quit. Handler errors are
// printed and the loop continues.
func runREPL(ctx context.Context, a execIface, statusFn func() string, in *bufio.Reader, out io.Writer, log logging.Logger) {
	for {
		fmt.Fprintf(out, "um %s> ", statusFn())
		line, err := in.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			fmt.Fprintln(out)
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := strings.ToLower(parts[0]), parts[1:]

		var cmdErr error
		switch cmd {
		case "help", "?":
			printHelp(a.role(), out)
		case "whoami":
			cmdErr = a.Whoami(ctx)
		case "passwd":
			cmdErr = a.ChangePassword(ctx)
		case "users":
			cmdErr = a.Users(ctx, args)
		case "scooters":
			cmdErr = a.Scooters(ctx, args)
		case "travellers":
			cmdErr = a.Travellers(ctx, args)
		case "logs":
			cmdErr = a.Logs(ctx, args)
		case "exit", "quit":
			fmt.Fprintln(out, "Bye!")
			return
		default:
			fmt.Fprintln(out, "Unknown command:", cmd)
		}

		if cmdErr != nil {
			if errors.Is(cmdErr, io.EOF) {
				fmt.Fprintln(out)
				return
			}
			msg, known := describe(cmdErr)
			if !known {
				log.Error(ctx, "command failed", "command", cmd, "error", cmdErr)
			}
			fmt.Fprintln(out, "Error:", msg)
		}
	}
}

var errUsage = errors.New("usage")

func usage(text string) error {
	return fmt.Errorf("%w: %s", errUsage, text)
}

// describe turns a handler error into a message for the operator and
// reports whether the error was an expected one. Storage and crypto details
// are not shown.
func describe(err error) (string, bool) {
	switch {
	case errors.Is(err, errUsage), errors.Is(err, common.ErrInvalidInput):
		return err.Error(), true
	case errors.Is(err, common.ErrForbidden):
		return "you are not allowed to do this", true
	case errors.Is(err, common.ErrorNotFound):
		return "not found", true
	case errors.Is(err, common.ErrorAlreadyExists):
		return "already exists", true
	case errors.Is(err, common.ErrAuthenticationFailed):
		return "authentication failed", true
	}
	return "operation failed", false
}

package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/casevault/casevault/infra/initializer"
	"github.com/casevault/casevault/pkg/config"
	"github.com/casevault/casevault/pkg/domain/auth"
	"github.com/casevault/casevault/pkg/provider/identity"
	"github.com/casevault/casevault/pkg/relay"
	"github.com/casevault/casevault/pkg/service/login"
	"golang.org/x/term"
)

const usage = `Usage: casevault-cli <command> [flags]

Commands:
  login [--email address] [--env file]   sign in and hand the session to the backend
  signup                                 open the account creation screen
  forgot-password                        request a password reset
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	os.Exit(run(ctx, os.Args[1:], os.Stdin, os.Stdout))
}

// run executes one command and returns the process exit code.
func run(ctx context.Context, args []string, stdin io.Reader, stdout io.Writer) int {
	ui := newTerminal(stdout)
	if len(args) == 0 {
		fmt.Fprint(stdout, usage)
		return 2
	}

	fs := flag.NewFlagSet(args[0], flag.ContinueOnError)
	fs.SetOutput(stdout)
	email := fs.String("email", "", "account email address")
	envFile := fs.String("env", ".env", "environment file")
	if err := fs.Parse(args[1:]); err != nil {
		return 2
	}

	cfg, err := config.Load(*envFile)
	if err != nil {
		ui.Notify(login.Notice{Kind: login.NoticeError, Title: "Configuration", Message: err.Error()})
		return 1
	}
	logger := initializer.SetupLogger(os.Stderr, cfg.Log)
	svc := login.New(
		identity.NewFirebaseProvider(cfg.Identity, logger),
		relay.New(cfg.Relay, logger),
		ui,
		ui,
		logger,
	)

	switch args[0] {
	case "login":
		in := bufio.NewReader(stdin)
		creds, err := prompt(in, stdin, stdout, *email)
		if err != nil {
			ui.Notify(login.Notice{Kind: login.NoticeError, Title: "Input", Message: err.Error()})
			return 1
		}
		if out := svc.Submit(ctx, creds); !out.Success() {
			return 1
		}
		return 0
	case "signup":
		svc.SignUp()
		return 0
	case "forgot-password":
		svc.ForgotPassword()
		return 0
	default:
		fmt.Fprintf(stdout, "unknown command %q\n\n%s", args[0], usage)
		return 2
	}
}

// prompt asks for whatever the flags did not supply. The password is read
// without echo when stdin is a terminal.
func prompt(in *bufio.Reader, stdin io.Reader, stdout io.Writer, email string) (auth.Credentials, error) {
	if email == "" {
		fmt.Fprint(stdout, "Email: ")
		line, err := in.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return auth.Credentials{}, err
		}
		email = strings.TrimSpace(line)
	}

	fmt.Fprint(stdout, "Password: ")
	if f, ok := stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		pw, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(stdout)
		if err != nil {
			return auth.Credentials{}, fmt.Errorf("failed to read password: %w", err)
		}
		return auth.Credentials{Email: email, Password: string(pw)}, nil
	}
	line, err := in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return auth.Credentials{}, err
	}
	fmt.Fprintln(stdout)
	return auth.Credentials{Email: email, Password: strings.TrimRight(line, "\r\n")}, nil
}

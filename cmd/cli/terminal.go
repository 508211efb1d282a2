package main

import (
	"io"
	"sync"

	"github.com/casevault/casevault/pkg/service/login"
	"github.com/fatih/color"
)

// terminal renders notices as colored banners and records navigation.
type terminal struct {
	mu     sync.Mutex
	out    io.Writer
	styles map[login.NoticeKind]*color.Color
	route  string
}

func newTerminal(out io.Writer) *terminal {
	return &terminal{
		out: out,
		styles: map[login.NoticeKind]*color.Color{
			login.NoticeInfo:    color.New(color.FgCyan, color.Bold),
			login.NoticeSuccess: color.New(color.FgGreen, color.Bold),
			login.NoticeError:   color.New(color.FgRed, color.Bold),
		},
	}
}

func (t *terminal) Notify(n login.Notice) {
	t.mu.Lock()
	defer t.mu.Unlock()
	style, ok := t.styles[n.Kind]
	if !ok {
		style = t.styles[login.NoticeInfo]
	}
	style.Fprintf(t.out, "[%s]", n.Title) //nolint:errcheck
	if n.Message != "" {
		io.WriteString(t.out, " "+n.Message) //nolint:errcheck
	}
	io.WriteString(t.out, "\n") //nolint:errcheck
}

var screens = map[string]string{
	login.RouteLanding: "CaseVault home",
	login.RouteSignup:  "Create account",
}

func (t *terminal) Navigate(route string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.route = route
	name, ok := screens[route]
	if !ok {
		name = route
	}
	color.New(color.Faint).Fprintf(t.out, "-> %s (%s)\n", name, route) //nolint:errcheck
}

package scripts

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/GlintPay/dockercluster/resolution"
	"github.com/GlintPay/dockercluster/store"
	"github.com/Masterminds/sprig"
)

// Launcher is the container launcher every script delegates to, relative to
// the deployment root.
const Launcher = "bin/docker-cluster"

type Kind string

const (
	Start Kind = "start"
	Run   Kind = "run"
	Stop  Kind = "stop"
)

var Kinds = []Kind{Start, Run, Stop}

var ErrUnknownKind = errors.New("unknown script kind")

func ParseKind(name string) (Kind, error) {
	for _, k := range Kinds {
		if string(k) == name {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownKind, name)
}

// Path is where the script is installed relative to the deployment root.
func (k Kind) Path() string {
	return "bin/" + string(k)
}

var templates = template.Must(
	template.New("scripts").Funcs(sprig.TxtFuncMap()).Parse(usageTemplate + headerTemplate),
)

var bodies = map[Kind]*template.Template{
	Start: mustBody(Start, startTemplate),
	Run:   mustBody(Run, runTemplate),
	Stop:  mustBody(Stop, stopTemplate),
}

func mustBody(k Kind, text string) *template.Template {
	return template.Must(template.Must(templates.Clone()).New(string(k)).Parse(text))
}

type scriptData struct {
	Generated    string
	Image        string
	Applications []string
	Aggregate    bool
	Cases        []string
	All          []string
}

// Generator renders the start, run and stop scripts of a host.
type Generator struct {
	Resolver resolution.Resolver
	Now      func() time.Time
}

func NewGenerator(r resolution.Resolver) Generator {
	return Generator{Resolver: r, Now: time.Now}
}

func (g Generator) Render(k Kind, host store.Host) (string, error) {
	switch k {
	case Start:
		return g.Start(host)
	case Run:
		return g.Run(host)
	case Stop:
		return g.Stop(host)
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownKind, k)
}

// Start execs one deployed application, or starts all of them with --all.
func (g Generator) Start(host store.Host) (string, error) {
	image := g.Resolver.Image()
	data := g.newData(g.Resolver.DeployedApplications(host), true)

	for _, app := range data.Applications {
		cmd := fmt.Sprintf("%s %s --name '%s' --image '%s' \"$@\"",
			Launcher, strings.Join(g.Resolver.Arguments(app, host), " "), g.Resolver.ContainerName(app), image)
		data.Cases = append(data.Cases, branch(app, "exec "+cmd))
		data.All = append(data.All, "    "+cmd)
	}

	return g.execute(Start, data)
}

// Run starts a one-off container of any configured application, passing on
// extra arguments. Applications only known from per-application configs or
// args are included so that e.g. a console can be opened.
func (g Generator) Run(host store.Host) (string, error) {
	image := g.Resolver.Image()
	data := g.newData(g.Resolver.ConfiguredApplications(host), false)

	for _, app := range data.Applications {
		cmd := fmt.Sprintf("exec %s %s --image '%s' --one-off \"$@\"",
			Launcher, strings.Join(g.Resolver.Arguments(app, host), " "), image)
		data.Cases = append(data.Cases, branch(app, cmd))
	}

	return g.execute(Run, data)
}

// Stop scales one deployed application, or all of them, down to zero.
func (g Generator) Stop(host store.Host) (string, error) {
	data := g.newData(g.Resolver.DeployedApplications(host), true)

	for _, app := range data.Applications {
		cmd := fmt.Sprintf("%s --name '%s' --count 0", Launcher, g.Resolver.ContainerName(app))
		data.Cases = append(data.Cases, branch(app, "exec "+cmd))
		data.All = append(data.All, "    "+cmd)
	}

	return g.execute(Stop, data)
}

func (g Generator) newData(applications []string, aggregate bool) scriptData {
	now := time.Now
	if g.Now != nil {
		now = g.Now
	}

	return scriptData{
		Generated:    now().UTC().Format(time.RFC3339),
		Image:        g.Resolver.Image(),
		Applications: applications,
		Aggregate:    aggregate,
	}
}

func (g Generator) execute(k Kind, data scriptData) (string, error) {
	var buf bytes.Buffer
	if err := bodies[k].Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render %s script: %w", k, err)
	}
	return buf.String(), nil
}

func branch(app string, cmd string) string {
	return fmt.Sprintf("  '%s')\n    %s\n    ;;", app, cmd)
}

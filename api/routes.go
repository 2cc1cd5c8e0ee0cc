package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/GlintPay/dockercluster/backend"
	"github.com/GlintPay/dockercluster/config"
	gotel "github.com/GlintPay/dockercluster/otel"
	"github.com/GlintPay/dockercluster/resolution"
	"github.com/GlintPay/dockercluster/scripts"
	"github.com/GlintPay/dockercluster/store"
	"github.com/go-chi/chi/v5"
	"github.com/riandyrn/otelchi"
	"github.com/rs/zerolog/log"
)

const (
	applicationJSON = "application/json"
	shellScript     = "text/x-shellscript"
)

var errLabelsDisabled = errors.New("cannot specify a label when `git.disableLabels` is true")

type Routing struct {
	ServerName   string
	ParentRouter chi.Router

	AppConfig config.ApplicationConfiguration
	Backends  backend.Backends
	Metrics   *Metrics

	// Now stamps generated scripts, time.Now when nil
	Now func() time.Time
}

func (rtr *Routing) SetupFunctionalRoutes(r chi.Router) error {
	if e := rtr.enableOTelForRouter(r); e != nil {
		return e
	}

	r.Get("/hosts", rtr.hostsHandler())
	r.Route("/hosts/{host}", func(r chi.Router) {
		r.Get("/applications", rtr.applicationsHandler())
		r.Get("/applications/{application}/args", rtr.argumentsHandler())
		r.Get("/configs", rtr.configsHandler())
		r.Get("/scripts/{kind}", rtr.scriptHandler())
	})

	return nil
}

func (rtr *Routing) hostsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, err := rtr.newRequestFromChi(r)
		if err != nil {
			rtr.writeError(w, err)
			return
		}

		s, err := LoadStores(r.Context(), rtr.Backends, req)
		if err != nil {
			rtr.writeError(w, err)
			return
		}

		w.Header().Set("X-Resolution-Version", s.Version)

		bytes, err := marshalResponseJson(s.HostNames(), req.PrettyPrintJson)
		rtr.handleOutput(w, err, applicationJSON, bytes, req.LogResponses)
	}
}

func (rtr *Routing) applicationsHandler() http.HandlerFunc {
	return rtr.hostHandler(func(res resolution.Resolver, host store.Host, r *http.Request) (any, error) {
		return applicationsResponse{
			Deployed:   res.DeployedApplications(host),
			Configured: res.ConfiguredApplications(host),
		}, nil
	})
}

func (rtr *Routing) argumentsHandler() http.HandlerFunc {
	return rtr.hostHandler(func(res resolution.Resolver, host store.Host, r *http.Request) (any, error) {
		return res.Arguments(chi.URLParam(r, "application"), host), nil
	})
}

func (rtr *Routing) configsHandler() http.HandlerFunc {
	return rtr.hostHandler(func(res resolution.Resolver, host store.Host, r *http.Request) (any, error) {
		return res.ConfigFileMap(host), nil
	})
}

func (rtr *Routing) scriptHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		kind, err := scripts.ParseKind(chi.URLParam(r, "kind"))
		if err != nil {
			rtr.writeError(w, err)
			return
		}

		req, res, host, ok := rtr.resolveHost(w, r)
		if !ok {
			return
		}

		if req.EnableTrace {
			_, span := gotel.GetTracer(r.Context()).Start(r.Context(), "renderScript", gotel.ServerOptions)
			defer span.End()
		}

		generator := scripts.NewGenerator(res)
		if rtr.Now != nil {
			generator.Now = rtr.Now
		}

		script, err := generator.Render(kind, host)
		if err == nil {
			rtr.Metrics.rendered(kind)
		}

		rtr.handleOutput(w, err, shellScript, []byte(script), req.LogResponses)
	}
}

type hostResolution func(res resolution.Resolver, host store.Host, r *http.Request) (any, error)

func (rtr *Routing) hostHandler(resolve hostResolution) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, res, host, ok := rtr.resolveHost(w, r)
		if !ok {
			return
		}

		if req.EnableTrace {
			_, span := gotel.GetTracer(r.Context()).Start(r.Context(), "resolve", gotel.ServerOptions)
			defer span.End()
		}

		value, err := resolve(res, host, r)
		if err != nil {
			rtr.writeError(w, err)
			return
		}

		bytes, err := marshalResponseJson(value, req.PrettyPrintJson)
		rtr.handleOutput(w, err, applicationJSON, bytes, req.LogResponses)
	}
}

// resolveHost loads the definition and looks up the requested host, writing
// any error response itself.
func (rtr *Routing) resolveHost(w http.ResponseWriter, r *http.Request) (LoadRequest, resolution.Resolver, store.Host, bool) {
	req, err := rtr.newRequestFromChi(r)
	if err != nil {
		rtr.writeError(w, err)
		return req, resolution.Resolver{}, store.Host{}, false
	}

	s, err := LoadStores(r.Context(), rtr.Backends, req)
	if err != nil {
		rtr.writeError(w, err)
		return req, resolution.Resolver{}, store.Host{}, false
	}

	host, err := s.Host(chi.URLParam(r, "host"))
	if err != nil {
		rtr.writeError(w, err)
		return req, resolution.Resolver{}, store.Host{}, false
	}

	w.Header().Set("X-Resolution-Host", host.Name)
	w.Header().Set("X-Resolution-Version", s.Version)

	return req, resolution.New(s), host, true
}

func marshalResponseJson(val any, pretty bool) ([]byte, error) {
	if pretty {
		return json.MarshalIndent(val, "", "  ")
	}
	return json.Marshal(val)
}

func (rtr *Routing) handleOutput(w http.ResponseWriter, err error, contentType string, bytes []byte, logResponses bool) {
	if err != nil {
		rtr.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", contentType)
	_, _ = w.Write(bytes)

	if logResponses {
		log.Debug().Msgf("Response: %s", string(bytes))
	}
}

func (rtr *Routing) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		rtr.Metrics.failed()
	}

	w.Header().Set("Content-Type", applicationJSON)
	w.WriteHeader(status)

	info := map[string]any{"message": err.Error()}
	_ = json.NewEncoder(w).Encode(info)

	log.Error().Err(err).Stack().Int("status", status).Msg("Response error")
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, store.ErrHostNotFound), errors.Is(err, scripts.ErrUnknownKind):
		return http.StatusNotFound
	case errors.Is(err, errLabelsDisabled):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func (rtr *Routing) newRequestFromChi(r *http.Request) (LoadRequest, error) {
	queries := r.URL.Query()

	label := queries.Get("label")
	if rtr.AppConfig.Git.DisableLabels && label != "" {
		return LoadRequest{}, errLabelsDisabled
	}

	return LoadRequest{
		Label:          label,
		RefreshBackend: !queries.Has("norefresh"),
		DefinitionFile: rtr.AppConfig.Defaults.DefinitionFileOrDefault(),

		LogResponses:    overrideBooleanDefault(queries.Get("logResponses"), rtr.AppConfig.Defaults.LogResponses),
		PrettyPrintJson: overrideBooleanDefault(queries.Get("pretty"), rtr.AppConfig.Defaults.PrettyPrintJson),
		EnableTrace:     rtr.AppConfig.Tracing.Enabled,
	}, nil
}

func (rtr *Routing) enableOTelForRouter(r chi.Router) error {
	if !rtr.AppConfig.Tracing.Enabled {
		return nil
	}

	if rtr.ServerName == "" || rtr.ParentRouter == nil {
		return errors.New("OTel not configured")
	}

	r.Use(otelchi.Middleware(rtr.ServerName, otelchi.WithChiRoutes(rtr.ParentRouter)))

	log.Info().Msgf("OpenTelemetry trace is enabled")
	return nil
}

func overrideBooleanDefault(queryValue string, defaultVal bool) bool {
	reqVal := strings.ToLower(queryValue)
	if reqVal == "true" {
		return true
	} else if reqVal == "false" {
		return false
	}
	return defaultVal
}

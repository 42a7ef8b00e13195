package http

import (
	"net/http"
	"strings"
)

type RouterConfig struct {
	People     *PeopleHandler
	Events     *EventHandler
	Series     *SeriesHandler
	Roster     *RosterHandler
	Metrics    *Metrics
	Middleware []func(http.Handler) http.Handler
}

func NewRouter(cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()

	if cfg.People != nil {
		mux.HandleFunc("/people", func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet:
				cfg.People.List(w, r)
			case http.MethodPost:
				cfg.People.Create(w, r)
			default:
				methodNotAllowed(w, http.MethodGet, http.MethodPost)
			}
		})
		mux.HandleFunc("/people/", func(w http.ResponseWriter, r *http.Request) {
			rest := strings.TrimPrefix(r.URL.Path, "/people/")
			id, sub, _ := strings.Cut(rest, "/")
			if id == "" {
				http.NotFound(w, r)
				return
			}
			r = r.WithContext(ContextWithResourceID(r.Context(), id))
			switch {
			case sub == "":
				switch r.Method {
				case http.MethodGet:
					cfg.People.Get(w, r)
				case http.MethodPut:
					cfg.People.Update(w, r)
				case http.MethodDelete:
					cfg.People.Delete(w, r)
				default:
					methodNotAllowed(w, http.MethodGet, http.MethodPut, http.MethodDelete)
				}
			case sub == "roles":
				switch r.Method {
				case http.MethodPost:
					cfg.People.AddRoles(w, r)
				case http.MethodDelete:
					cfg.People.RemoveRoles(w, r)
				default:
					methodNotAllowed(w, http.MethodPost, http.MethodDelete)
				}
			case sub == "blocks":
				if r.Method != http.MethodPost {
					methodNotAllowed(w, http.MethodPost)
					return
				}
				cfg.People.AddBlock(w, r)
			case strings.HasPrefix(sub, "blocks/"):
				if r.Method != http.MethodDelete {
					methodNotAllowed(w, http.MethodDelete)
					return
				}
				cfg.People.RemoveBlock(w, r, strings.TrimPrefix(sub, "blocks/"))
			default:
				http.NotFound(w, r)
			}
		})
	}

	if cfg.Events != nil {
		mux.HandleFunc("/events", func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet:
				cfg.Events.List(w, r)
			case http.MethodPost:
				cfg.Events.Create(w, r)
			default:
				methodNotAllowed(w, http.MethodGet, http.MethodPost)
			}
		})
		mux.HandleFunc("/events/", func(w http.ResponseWriter, r *http.Request) {
			rest := strings.TrimPrefix(r.URL.Path, "/events/")
			id, sub, _ := strings.Cut(rest, "/")
			if id == "" {
				http.NotFound(w, r)
				return
			}
			r = r.WithContext(ContextWithResourceID(r.Context(), id))
			switch sub {
			case "":
				switch r.Method {
				case http.MethodPut:
					cfg.Events.Update(w, r)
				case http.MethodDelete:
					cfg.Events.Delete(w, r)
				default:
					methodNotAllowed(w, http.MethodPut, http.MethodDelete)
				}
			case "pool":
				if r.Method != http.MethodPut {
					methodNotAllowed(w, http.MethodPut)
					return
				}
				cfg.Events.SetPool(w, r)
			case "suggestions":
				if r.Method != http.MethodGet {
					methodNotAllowed(w, http.MethodGet)
					return
				}
				cfg.Events.Suggestions(w, r)
			default:
				http.NotFound(w, r)
			}
		})
	}

	if cfg.Series != nil {
		mux.HandleFunc("/recurrences", func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet:
				cfg.Series.ListRecurrences(w, r)
			case http.MethodPost:
				cfg.Series.CreateRecurrence(w, r)
			default:
				methodNotAllowed(w, http.MethodGet, http.MethodPost)
			}
		})
		mux.HandleFunc("/recurrences/", func(w http.ResponseWriter, r *http.Request) {
			rest := strings.TrimPrefix(r.URL.Path, "/recurrences/")
			id, sub, _ := strings.Cut(rest, "/")
			if id == "" {
				http.NotFound(w, r)
				return
			}
			r = r.WithContext(ContextWithResourceID(r.Context(), id))
			switch sub {
			case "":
				if r.Method != http.MethodDelete {
					methodNotAllowed(w, http.MethodDelete)
					return
				}
				cfg.Series.DeleteRecurrence(w, r)
			case "generate":
				if r.Method != http.MethodPost {
					methodNotAllowed(w, http.MethodPost)
					return
				}
				cfg.Series.Generate(w, r)
			default:
				http.NotFound(w, r)
			}
		})
		mux.HandleFunc("/series", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				methodNotAllowed(w, http.MethodGet)
				return
			}
			cfg.Series.ListSeries(w, r)
		})
		mux.HandleFunc("/series/", func(w http.ResponseWriter, r *http.Request) {
			rest := strings.TrimPrefix(r.URL.Path, "/series/")
			id, sub, _ := strings.Cut(rest, "/")
			if id == "" {
				http.NotFound(w, r)
				return
			}
			r = r.WithContext(ContextWithResourceID(r.Context(), id))
			switch sub {
			case "":
				if r.Method != http.MethodDelete {
					methodNotAllowed(w, http.MethodDelete)
					return
				}
				cfg.Series.DeleteSeries(w, r)
			case "pool":
				if r.Method != http.MethodPut {
					methodNotAllowed(w, http.MethodPut)
					return
				}
				cfg.Series.SetPool(w, r)
			case "rebase":
				if r.Method != http.MethodPost {
					methodNotAllowed(w, http.MethodPost)
					return
				}
				cfg.Series.Rebase(w, r)
			default:
				http.NotFound(w, r)
			}
		})
	}

	if cfg.Roster != nil {
		handlePost := func(pattern string, fn http.HandlerFunc) {
			mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPost {
					methodNotAllowed(w, http.MethodPost)
					return
				}
				fn(w, r)
			})
		}
		handleGet := func(pattern string, fn http.HandlerFunc) {
			mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodGet {
					methodNotAllowed(w, http.MethodGet)
					return
				}
				fn(w, r)
			})
		}

		handlePost("/schedule/recalculate", cfg.Roster.Recalculate)
		handlePost("/schedule/reset", cfg.Roster.Reset)
		handleGet("/schedule", cfg.Roster.Schedule)
		handleGet("/schedule/unfilled", cfg.Roster.Unfilled)
		handleGet("/schedule/conflicts", cfg.Roster.Conflicts)
		handleGet("/schedule/stats", cfg.Roster.Statistics)
		handleGet("/schedule/export.csv", cfg.Roster.ExportCSV)
		handleGet("/schedule/export.ics", cfg.Roster.ExportICS)
		handlePost("/assignments/clear", cfg.Roster.Clear)
		handlePost("/assignments/swap", cfg.Roster.Swap)
		handlePost("/undo", cfg.Roster.Undo)
		handlePost("/state/save", cfg.Roster.SaveState)
		handlePost("/state/load", cfg.Roster.LoadState)
		mux.HandleFunc("/assignments", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPut {
				methodNotAllowed(w, http.MethodPut)
				return
			}
			cfg.Roster.Assign(w, r)
		})
	}

	if cfg.Metrics != nil {
		mux.Handle("/metrics", cfg.Metrics.Handler())
	}

	var handler http.Handler = mux
	for i := len(cfg.Middleware) - 1; i >= 0; i-- {
		if cfg.Middleware[i] != nil {
			handler = cfg.Middleware[i](handler)
		}
	}

	return handler
}

func methodNotAllowed(w http.ResponseWriter, allowed ...string) {
	if len(allowed) > 0 {
		w.Header().Set("Allow", strings.Join(allowed, ", "))
	}
	http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
}

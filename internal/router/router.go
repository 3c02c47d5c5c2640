package router

import (
	"database/sql"
	"errors"
	"net/http"
	"time"

	"petvet/internal/adapters/auth/session"
	mem "petvet/internal/adapters/storage/memory"
	pg "petvet/internal/adapters/storage/postgres"
	"petvet/internal/domain/directory"
	"petvet/internal/domain/offices"
	"petvet/internal/domain/patients"
	"petvet/internal/domain/pets"
	"petvet/internal/domain/records"
	"petvet/internal/domain/stats"
	"petvet/internal/domain/users"
	"petvet/internal/middleware"
	"petvet/internal/platform/httpclient"
	"petvet/internal/platform/httpx"
	"petvet/internal/platform/logger"
	"petvet/internal/ports/auth"

	_ "petvet/docs"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

type DirectoryOptions struct {
	// BaseURL del directorio externo; los links se resuelven contra ella.
	BaseURL string
	Radius  int

	// Fetcher opcional (tests). Si es nil se usa HTTP contra BaseURL.
	Fetcher directory.Fetcher

	MaxPages    int
	PageTimeout time.Duration

	// SearchTimeout acota la búsqueda completa; 0 => sin tope global.
	SearchTimeout time.Duration

	// Cache opcional (redis).
	Cache    directory.Cache
	CacheTTL time.Duration
}

type Options struct {
	// Sessions firma y verifica la cookie. Si es nil se genera una clave
	// aleatoria (las sesiones no sobreviven un reinicio).
	Sessions     auth.SessionCodec
	CookieSecure bool

	// Opcional: si viene, usa Postgres. Si no, in-memory.
	DB *sql.DB

	Logger    logger.Logger
	Directory DirectoryOptions
}

type repos struct {
	users    users.Repository
	pets     pets.Repository
	records  records.Repository
	patients patients.Repository
	offices  offices.Repository
}

func newRepos(db *sql.DB) repos {
	if db != nil {
		return repos{
			users:    pg.NewUsersRepo(db),
			pets:     pg.NewPetsRepo(db),
			records:  pg.NewRecordsRepo(db),
			patients: pg.NewPatientsRepo(db),
			offices:  pg.NewOfficesRepo(db),
		}
	}
	st := mem.New()
	return repos{
		users:    st.Users(),
		pets:     st.Pets(),
		records:  st.Records(),
		patients: st.Patients(),
		offices:  st.Offices(),
	}
}

// Services expone los servicios armados (main los usa para el admin de arranque).
type Services struct {
	Users     *users.Service
	Pets      *pets.Service
	Records   *records.Service
	Patients  *patients.Service
	Offices   *offices.Service
	Stats     *stats.Service
	Directory *directory.Service
}

func newServices(rp repos, opts Options) (Services, error) {
	fetcher := opts.Directory.Fetcher
	if fetcher == nil {
		client, err := httpclient.NewWithBaseURL(opts.Directory.BaseURL, opts.Directory.PageTimeout)
		if err != nil {
			return Services{}, err
		}
		fetcher = directory.NewHTTPFetcher(client, opts.Directory.Radius)
	}
	scraper, err := directory.NewScraper(fetcher, opts.Directory.BaseURL, directory.ScraperOptions{
		MaxPages:    opts.Directory.MaxPages,
		PageTimeout: opts.Directory.PageTimeout,
	})
	if err != nil {
		return Services{}, err
	}

	petsSvc := pets.NewService(rp.pets, rp.records)
	patientsSvc := patients.NewService(rp.patients, rp.pets)
	officesSvc := offices.NewService(rp.offices)

	return Services{
		Users:     users.NewService(rp.users, users.BcryptHasher{}),
		Pets:      petsSvc,
		Records:   records.NewService(rp.records, petsSvc, patientsSvc),
		Patients:  patientsSvc,
		Offices:   officesSvc,
		Stats:     stats.NewService(rp.patients, rp.records),
		Directory: directory.NewService(scraper, officesSvc, opts.Directory.Cache, opts.Directory.CacheTTL).
			WithSearchTimeout(opts.Directory.SearchTimeout),
	}, nil
}

// New arma el handler HTTP completo y devuelve también los servicios.
func New(opts Options) (http.Handler, Services, error) {
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}
	if opts.Sessions == nil {
		codec, err := session.NewRandom(0)
		if err != nil {
			return nil, Services{}, err
		}
		opts.Sessions = codec
	}
	if opts.Directory.BaseURL == "" {
		return nil, Services{}, errors.New("router: directory base url is required")
	}

	svcs, err := newServices(newRepos(opts.DB), opts)
	if err != nil {
		return nil, Services{}, err
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(opts.Logger))
	r.Use(middleware.Recover)

	r.Use(middleware.AuthContext(opts.Sessions))

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		httpx.WriteJSON(w, http.StatusNotFound, map[string]string{"error": "not_found", "message": "route not found"})
	})

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	users.RegisterAuthRoutes(r, svcs.Users, users.SessionOptions{
		Issuer:       opts.Sessions,
		CookieSecure: opts.CookieSecure,
	})

	// Todo lo demás requiere sesión: 401 antes de mirar el body.
	r.Group(func(pr chi.Router) {
		pr.Use(middleware.RequireIdentity(svcs.Users))

		users.RegisterAdminRoutes(pr, svcs.Users)
		pets.RegisterRoutes(pr, svcs.Pets, svcs.Records)
		records.RegisterRoutes(pr, svcs.Records)
		patients.RegisterRoutes(pr, svcs.Patients)
		stats.RegisterRoutes(pr, svcs.Stats)
		offices.RegisterRoutes(pr, svcs.Offices)
		directory.RegisterRoutes(pr, svcs.Directory)
	})

	return r, svcs, nil
}

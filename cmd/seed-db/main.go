// Command seed-db runs migrations and loads a starter menu plus an admin
// account into the database.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"os/signal"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/forkline/storefront/internal/domain/menu"
	"github.com/forkline/storefront/internal/domain/user"
	"github.com/forkline/storefront/internal/postgres"
)

type menuItemJSON struct {
	Name        string          `json:"name"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Image       string          `json:"image"`
}

func main() {
	var (
		databaseURL   string
		menuFile      string
		adminEmail    string
		adminPassword string
	)

	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.StringVar(&menuFile, "menu-file", "db/seed/menu.json", "path to menu JSON file")
	flag.StringVar(&adminEmail, "admin-email", "", "admin account email (or STOREFRONT_SEED_ADMIN_EMAIL env)")
	flag.StringVar(&adminPassword, "admin-password", "", "admin account password (or STOREFRONT_SEED_ADMIN_PASSWORD env)")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}
	if adminEmail == "" {
		adminEmail = os.Getenv("STOREFRONT_SEED_ADMIN_EMAIL")
	}
	if adminPassword == "" {
		adminPassword = os.Getenv("STOREFRONT_SEED_ADMIN_PASSWORD")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, databaseURL, menuFile, adminEmail, adminPassword); err != nil {
		slog.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("seed completed successfully")
}

func run(ctx context.Context, databaseURL, menuFile, adminEmail, adminPassword string) error {
	slog.Info("connecting to database")

	pool, err := postgres.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	slog.Info("running migrations")

	if err := postgres.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	if err := seedMenu(ctx, pool, menuFile); err != nil {
		return errors.Wrap(err, "seed menu")
	}

	if adminEmail != "" && adminPassword != "" {
		if err := seedAdmin(ctx, pool, adminEmail, adminPassword); err != nil {
			return errors.Wrap(err, "seed admin")
		}
	}

	return nil
}

func seedMenu(ctx context.Context, pool *pgxpool.Pool, menuFile string) error {
	slog.Info("reading menu file", slog.String("path", menuFile))

	data, err := os.ReadFile(menuFile)
	if err != nil {
		return errors.Wrap(err, "read menu file")
	}

	var items []menuItemJSON
	if err := json.Unmarshal(data, &items); err != nil {
		return errors.Wrap(err, "parse menu JSON")
	}

	repo := postgres.NewMenuRepository(pool)

	// Idempotence: skip items already present by name so re-running the
	// seeder does not duplicate the menu.
	existing, err := repo.List(ctx, "")
	if err != nil {
		return errors.Wrap(err, "list existing items")
	}
	known := make(map[string]struct{}, len(existing))
	for _, it := range existing {
		known[it.Name] = struct{}{}
	}

	created := 0
	for _, raw := range items {
		if _, ok := known[raw.Name]; ok {
			continue
		}
		it := &menu.Item{
			Name:        raw.Name,
			Category:    raw.Category,
			Description: raw.Description,
			Price:       raw.Price,
			Image:       raw.Image,
		}
		if err := repo.Create(ctx, it); err != nil {
			return errors.Wrapf(err, "create item %q", raw.Name)
		}
		created++
	}

	slog.Info("seeded menu", slog.Int("created", created), slog.Int("total", len(items)))
	return nil
}

func seedAdmin(ctx context.Context, pool *pgxpool.Pool, email, password string) error {
	hash, err := user.HashPassword(password)
	if err != nil {
		return err
	}

	repo := postgres.NewUserRepository(pool)
	u := &user.User{
		Email:        email,
		PasswordHash: hash,
		Role:         user.RoleAdmin,
	}
	if err := repo.Create(ctx, u); err != nil {
		if errors.Is(err, user.ErrEmailTaken) {
			slog.Info("admin account already exists", slog.String("email", email))
			return nil
		}
		return err
	}

	slog.Info("created admin account", slog.String("email", email))
	return nil
}

// Command seed creates the default admin and divisions and loads score rows.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/peterbourgon/ff/v3"
	"golang.org/x/term"

	"github.com/aksamedia/aksamedia-admin/internal/admin"
	"github.com/aksamedia/aksamedia-admin/internal/config"
	"github.com/aksamedia/aksamedia-admin/internal/db"
	"github.com/aksamedia/aksamedia-admin/internal/division"
	"github.com/aksamedia/aksamedia-admin/internal/score"
	"github.com/aksamedia/aksamedia-admin/pkg/logger"
)

const defaultPassword = "pastibisa"

func main() {
	if err := runMain(context.Background(), os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "seed: %v\n", err)
		os.Exit(1)
	}
}

func runMain(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("seed", flag.ContinueOnError)
	var (
		docPath    = fs.String("config", "", "YAML seed document with admins and divisions (optional, defaults built in)")
		scoresPath = fs.String("scores", "", "CSV of score rows: nama,nisn,materi_uji_id,nama_pelajaran,pelajaran_id,skor")
		replace    = fs.Bool("replace-scores", false, "replace stored rows of every assessment batch present in -scores")
		password   = fs.String("password", "", "password for admins without one in the seed document")
		prompt     = fs.Bool("prompt", false, "read the admin password from the terminal")
		driver     = fs.String("db-driver", "", "database driver, overrides AKSA_DB_DRIVER")
		dsn        = fs.String("db-dsn", "", "database DSN, overrides AKSA_DB_DSN")
	)
	if err := ff.Parse(fs, args, ff.WithEnvVarPrefix("SEED")); err != nil {
		return err
	}

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}
	if *driver != "" {
		cfg.DBDriver = *driver
	}
	if *dsn != "" {
		cfg.DBDSN = *dsn
	}
	if err := logger.Init(cfg.LogLevel, false); err != nil {
		return err
	}
	log := logger.Named("seed")

	doc := defaultDocument()
	if *docPath != "" {
		f, err := os.Open(*docPath)
		if err != nil {
			return err
		}
		doc, err = loadDocument(f)
		_ = f.Close()
		if err != nil {
			return err
		}
	}

	var scores []score.Record
	if *scoresPath != "" {
		f, err := os.Open(*scoresPath)
		if err != nil {
			return err
		}
		scores, err = parseScores(f)
		_ = f.Close()
		if err != nil {
			return err
		}
	}

	pw := *password
	if *prompt {
		if pw, err = readPassword(os.Stdin, os.Stderr); err != nil {
			return err
		}
	}
	if pw == "" {
		pw = defaultPassword
		if cfg.Mode == config.ModeOnline {
			return errors.New("online mode needs -password or -prompt")
		}
	}

	openCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	dbh, err := db.Open(openCtx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	cancel()
	if err != nil {
		return err
	}
	defer dbh.Close()

	s := &seeder{
		admins:    admin.NewSQLStore(dbh),
		divisions: division.NewSQLStore(dbh),
		scores:    score.NewSQLStore(dbh),
		log:       log,
	}
	sum, err := s.run(ctx, doc, pw, scores, *replace)
	if err != nil {
		return err
	}
	log.Info(ctx, "seed complete",
		logger.Int("admins_created", sum.AdminsCreated),
		logger.Int("admins_updated", sum.AdminsUpdated),
		logger.Int("divisions_created", sum.DivisionsCreated),
		logger.Int("scores_written", sum.ScoresWritten))
	return nil
}

// readPassword prompts on out and reads without echo when in is a terminal.
func readPassword(in *os.File, out io.Writer) (string, error) {
	fd := int(in.Fd())
	if !term.IsTerminal(fd) {
		return "", errors.New("-prompt needs an interactive terminal")
	}
	fmt.Fprint(out, "Admin password: ")
	b, err := term.ReadPassword(fd)
	fmt.Fprintln(out)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}

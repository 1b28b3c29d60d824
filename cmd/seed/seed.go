package main

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/aksamedia/aksamedia-admin/internal/admin"
	"github.com/aksamedia/aksamedia-admin/internal/division"
	"github.com/aksamedia/aksamedia-admin/internal/score"
	"github.com/aksamedia/aksamedia-admin/pkg/logger"
)

// AdminSeed is one admin account of a seed document. An empty Password takes
// the password given on the command line.
type AdminSeed struct {
	Name     string `yaml:"name"`
	Username string `yaml:"username"`
	Phone    string `yaml:"phone"`
	Email    string `yaml:"email"`
	Role     string `yaml:"role"`
	Password string `yaml:"password"`
}

// Document lists the accounts and divisions to make sure exist.
type Document struct {
	Admins    []AdminSeed `yaml:"admins"`
	Divisions []string    `yaml:"divisions"`
}

func defaultDocument() Document {
	return Document{
		Admins: []AdminSeed{{
			Name:     "Admin Aksamedia",
			Username: "admin",
			Phone:    "082269324126",
			Email:    "adminaksamedia@gmail.com",
			Role:     admin.RoleAdmin,
		}},
		Divisions: []string{"Mobile Apps", "QA", "Full Stack", "Backend", "Frontend", "UI/UX Designer"},
	}
}

func loadDocument(r io.Reader) (Document, error) {
	var doc Document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return Document{}, fmt.Errorf("seed document: %w", err)
	}
	for i, a := range doc.Admins {
		if strings.TrimSpace(a.Username) == "" || strings.TrimSpace(a.Email) == "" {
			return Document{}, fmt.Errorf("seed document: admin %d needs username and email", i)
		}
		if a.Role != "" && a.Role != admin.RoleAdmin && a.Role != admin.RoleViewer {
			return Document{}, fmt.Errorf("seed document: admin %q has unknown role %q", a.Username, a.Role)
		}
	}
	return doc, nil
}

var scoreColumns = []string{"nama", "nisn", "materi_uji_id", "nama_pelajaran", "pelajaran_id", "skor"}

// parseScores reads score rows from a CSV with a header naming scoreColumns in any order.
func parseScores(r io.Reader) ([]score.Record, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scores header: %w", err)
	}
	idx := map[string]int{}
	for i, h := range header {
		idx[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	for _, c := range scoreColumns {
		if _, ok := idx[c]; !ok {
			return nil, fmt.Errorf("scores header: missing column %q", c)
		}
	}

	var out []score.Record
	for line := 2; ; line++ {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, fmt.Errorf("scores line %d: %w", line, err)
		}
		field := func(c string) string { return strings.TrimSpace(row[idx[c]]) }

		rec := score.Record{
			Name:         field("nama"),
			Identifier:   field("nisn"),
			SubjectLabel: field("nama_pelajaran"),
		}
		if rec.AssessmentID, err = strconv.Atoi(field("materi_uji_id")); err != nil {
			return nil, fmt.Errorf("scores line %d: materi_uji_id: %w", line, err)
		}
		if p := field("pelajaran_id"); p != "" {
			if rec.SubjectID, err = strconv.Atoi(p); err != nil {
				return nil, fmt.Errorf("scores line %d: pelajaran_id: %w", line, err)
			}
		}
		if rec.Score, err = strconv.ParseFloat(field("skor"), 64); err != nil {
			return nil, fmt.Errorf("scores line %d: skor: %w", line, err)
		}
		out = append(out, rec)
	}
}

type summary struct {
	AdminsCreated    int
	AdminsUpdated    int
	DivisionsCreated int
	ScoresWritten    int
}

type seeder struct {
	admins    *admin.SQLStore
	divisions *division.SQLStore
	scores    *score.SQLStore
	log       logger.Logger
}

// run applies doc and then writes scores. Admins are matched by username and
// divisions by name, so running it again only refreshes what is there.
func (s *seeder) run(ctx context.Context, doc Document, password string, scores []score.Record, replace bool) (summary, error) {
	var sum summary
	for _, a := range doc.Admins {
		pw := a.Password
		if pw == "" {
			pw = password
		}
		if pw == "" {
			return sum, fmt.Errorf("admin %q: no password", a.Username)
		}
		_, created, err := s.admins.Upsert(ctx, admin.Admin{
			Name: a.Name, Username: a.Username, Phone: a.Phone, Email: a.Email, Role: a.Role,
		}, pw)
		if err != nil {
			return sum, fmt.Errorf("admin %q: %w", a.Username, err)
		}
		if created {
			sum.AdminsCreated++
		} else {
			sum.AdminsUpdated++
		}
		s.log.Debug(ctx, "admin seeded", logger.String("username", a.Username), logger.Any("created", created))
	}

	for _, name := range doc.Divisions {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		_, created, err := s.divisions.EnsureByName(ctx, name)
		if err != nil {
			return sum, fmt.Errorf("division %q: %w", name, err)
		}
		if created {
			sum.DivisionsCreated++
		}
	}

	if len(scores) > 0 {
		write := s.scores.Insert
		if replace {
			write = s.scores.Replace
		}
		n, err := write(ctx, scores)
		if err != nil {
			return sum, fmt.Errorf("scores: %w", err)
		}
		sum.ScoresWritten = n
	}
	return sum, nil
}

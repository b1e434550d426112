package commands

import (
	"context"
	"flag"
	"fmt"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/schollz/progressbar/v3"

	"coddog/internal/config"
	"coddog/internal/db"
	"coddog/internal/errors"
	"coddog/internal/platform"
)

// DbCommand dispatches the database management subcommands.
func DbCommand(args []string) error {
	if len(args) == 0 {
		return errors.New(errors.KindBadRequest, "usage: coddog db <init|add-project|match|submatch|clean-bins>")
	}

	ctx := context.Background()
	database, err := openDB(ctx)
	if err != nil {
		return err
	}
	defer database.Close()

	switch args[0] {
	case "init":
		if err := database.Init(ctx); err != nil {
			return err
		}
		fmt.Println("Database initialized")
		return nil
	case "add-project":
		return dbAddProject(ctx, database, args[1:])
	case "match":
		return dbMatch(ctx, database, args[1:])
	case "submatch":
		return dbSubmatch(ctx, database, args[1:])
	case "clean-bins":
		removed, err := database.CleanBins(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("Removed %d orphaned objects\n", removed)
		return nil
	}
	return errors.New(errors.KindBadRequest, "unknown db subcommand %q", args[0])
}

func openDB(ctx context.Context) (*db.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return db.Open(ctx, cfg.DatabaseURL, cfg.BinPath, cfg.DBWindowSize)
}

func dbAddProject(ctx context.Context, database *db.DB, args []string) error {
	if len(args) != 1 {
		return errors.New(errors.KindBadRequest, "usage: coddog db add-project <yaml>")
	}
	yamlPath := args[0]

	d, err := loadDescriptor(yamlPath)
	if err != nil {
		return err
	}
	baseDir := filepath.Dir(yamlPath)

	var versions []db.IngestVersion
	var totalBytes uint64
	for i, v := range d.Versions {
		syms, objectData, err := collectSymbols(d, i, baseDir)
		if err != nil {
			return err
		}
		totalBytes += uint64(len(objectData))
		versions = append(versions, db.IngestVersion{
			Name:       v.Name,
			Platform:   d.Platform,
			SourceName: v.Name,
			Object:     objectData,
			Symbols:    syms,
		})
	}

	bar := progressbar.Default(-1, "Importing hashes")
	var repo *string
	if d.Repo != "" {
		repo = &d.Repo
	}
	projectID, err := database.IngestProject(ctx, d.Name, repo, versions, func(done, total int) {
		bar.ChangeMax(total)
		bar.Set(done)
	})
	if err != nil {
		return err
	}
	bar.Finish()
	fmt.Println()

	fmt.Printf("Imported project %s (id %d, %s of objects)\n",
		d.Name, projectID, humanize.Bytes(totalBytes))
	return nil
}

// pickSymbol resolves a name to one stored symbol; ambiguity is reported
// with the candidates rather than prompting.
func pickSymbol(ctx context.Context, database *db.DB, query string) (*db.DBSymbol, error) {
	syms, err := database.SymbolsByName(ctx, query, 50)
	if err != nil {
		return nil, err
	}
	var exact []db.DBSymbol
	for _, s := range syms {
		if s.Name == query {
			exact = append(exact, s)
		}
	}
	if len(exact) == 0 {
		return nil, errors.New(errors.KindNotFound, "no symbols found with the name %q", query)
	}
	if len(exact) > 1 {
		fmt.Printf("Multiple symbols named %q:\n", query)
		for _, s := range exact {
			fmt.Printf("  %s - %s %s\n", s.Slug, s.ProjectName, s.SourceName)
		}
		fmt.Printf("Using %s\n", exact[0].Slug)
	}
	return &exact[0], nil
}

func dbMatch(ctx context.Context, database *db.DB, args []string) error {
	if len(args) != 1 {
		return errors.New(errors.KindBadRequest, "usage: coddog db match <query>")
	}
	sym, err := pickSymbol(ctx, database, args[0])
	if err != nil {
		return err
	}

	for _, ch := range []db.MatchChannel{db.MatchExact, db.MatchEquivalent, db.MatchOpcode} {
		matches, err := database.SymbolsByChannel(ctx, sym, ch)
		if err != nil {
			return err
		}
		if len(matches) == 0 {
			continue
		}
		fmt.Printf("%s:\n", ch)
		for _, m := range matches {
			fmt.Printf("  %s - %s %s\n", fullname(m.Name, m.IsDecompiled), m.ProjectName, m.SourceName)
		}
	}
	return nil
}

func dbSubmatch(ctx context.Context, database *db.DB, args []string) error {
	fs := flag.NewFlagSet("db submatch", flag.ContinueOnError)
	window := fs.Int64("w", 0, "effective window size (defaults to the database window size)")
	pageSize := fs.Int64("s", 50, "page size")
	page := fs.Int64("p", 0, "page index")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New(errors.KindBadRequest, "usage: coddog db submatch [-w window] [-s size] [-p page] <query>")
	}

	sym, err := pickSymbol(ctx, database, fs.Arg(0))
	if err != nil {
		return err
	}

	userWindow := *window
	if userWindow == 0 {
		userWindow = int64(database.WindowSize())
	}

	insnLen := int64(4)
	if sym.Platform != nil {
		if p, perr := platform.Of(*sym.Platform); perr == nil {
			insnLen = int64(p.Arch().InsnLength())
		}
	}
	numInsns := sym.LenBytes / insnLen
	rows, total, err := database.Submatch(ctx, db.SubmatchRequest{
		SymbolID:   sym.ID,
		Start:      0,
		End:        numInsns,
		UserWindow: userWindow,
		PageSize:   *pageSize,
		Page:       *page,
	})
	if err != nil {
		return err
	}
	if total == 0 {
		fmt.Println("No submatches found")
		return nil
	}

	wdb := int64(database.WindowSize())
	var lastProject, lastSource, lastSymbol int64 = -1, -1, -1
	for _, r := range rows {
		if r.ProjectID != lastProject {
			fmt.Printf("%s:\n", r.ProjectName)
			lastProject, lastSource, lastSymbol = r.ProjectID, -1, -1
		}
		if r.SourceID != lastSource {
			fmt.Printf("\tVersion %s:\n", r.SourceName)
			lastSource, lastSymbol = r.SourceID, -1
		}
		if r.SymbolID != lastSymbol {
			fmt.Printf("\t\t%s:\n", r.SymbolName)
			lastSymbol = r.SymbolID
		}
		fmt.Printf("\t\t\t[%d/%d] (%d insns)\n", r.QueryStart, r.MatchStart, r.Length+wdb-1)
	}
	fmt.Printf("Page %d (%d of %d total matches)\n", *page, len(rows), total)
	return nil
}

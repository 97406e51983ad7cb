package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/paiv/icfpc2023/pkg/placement"
)

func TestNew(t *testing.T) {
	Convey("Given default configuration", t, func() {
		cfg := New()

		Convey("Then defaults are valid", func() {
			So(cfg.Validate(), ShouldBeNil)
			So(cfg.GridRadius, ShouldEqual, 5.0)
			So(cfg.ImproveThreshold, ShouldEqual, int64(1_000_000))
			So(cfg.LightningCutoff, ShouldEqual, 55)
			So(cfg.MaxGridPoints, ShouldEqual, placement.DefaultMaxGridPoints)
			So(cfg.CacheBackend, ShouldEqual, CacheFile)
			So(cfg.StoreBackend, ShouldEqual, StoreFile)
			So(cfg.CredentialsFile, ShouldEqual, ".env")
		})
	})
}

func TestLoad(t *testing.T) {
	ctx := context.Background()

	Convey("Given no file and no environment", t, func() {
		t.Setenv(EnvPrefix+"CONFIG", "")
		cfg, err := Load(ctx, LoadOptions{})

		Convey("Then defaults are returned", func() {
			So(err, ShouldBeNil)
			So(cfg.LogLevel, ShouldEqual, "info")
			So(cfg.ListenAddr, ShouldEqual, ":8080")
		})
	})

	Convey("Given a YAML file", t, func() {
		dir := t.TempDir()
		path := filepath.Join(dir, "stageplace.yaml")
		yml := "log_level: debug\ngrid_radius: 6.5\nseed: 42\nsolves_dir: /tmp/solves\n"
		So(os.WriteFile(path, []byte(yml), 0o644), ShouldBeNil)

		Convey("When it is named by STAGEPLACE_CONFIG", func() {
			t.Setenv(EnvPrefix+"CONFIG", path)
			cfg, err := Load(ctx, LoadOptions{})

			So(err, ShouldBeNil)
			So(cfg.LogLevel, ShouldEqual, "debug")
			So(cfg.GridRadius, ShouldEqual, 6.5)
			So(cfg.Seed, ShouldEqual, uint64(42))
			So(cfg.SolvesDir, ShouldEqual, "/tmp/solves")
			So(cfg.ProblemsDir, ShouldEqual, "task")
		})

		Convey("When environment variables are also set", func() {
			t.Setenv(EnvPrefix+"CONFIG", "")
			t.Setenv(EnvPrefix+"GRID_RADIUS", "7")
			t.Setenv(EnvPrefix+"CACHE_BACKEND", "none")
			cfg, err := Load(ctx, LoadOptions{Path: path})

			So(err, ShouldBeNil)
			So(cfg.GridRadius, ShouldEqual, 7.0)
			So(cfg.CacheBackend, ShouldEqual, CacheNone)
			So(cfg.LogLevel, ShouldEqual, "debug")
		})

		Convey("When overrides are given", func() {
			t.Setenv(EnvPrefix+"CONFIG", "")
			t.Setenv(EnvPrefix+"GRID_RADIUS", "7")
			cfg, err := Load(ctx, LoadOptions{
				Path:      path,
				Overrides: map[string]any{"grid_radius": 3.0, "time_limit": 2},
			})

			So(err, ShouldBeNil)
			So(cfg.GridRadius, ShouldEqual, 3.0)
			So(cfg.TimeLimit, ShouldEqual, 2)
		})
	})

	Convey("Given a missing file", t, func() {
		_, err := Load(ctx, LoadOptions{Path: filepath.Join(t.TempDir(), "nope.yaml")})

		Convey("Then a load error is returned", func() {
			So(errors.Is(err, ErrLoadConfig), ShouldBeTrue)
		})
	})

	Convey("Given invalid values", t, func() {
		t.Setenv(EnvPrefix+"CONFIG", "")
		cases := []struct {
			key string
			val any
		}{
			{"log_level", "loud"},
			{"grid_radius", 0},
			{"max_grid_points", 0},
			{"cache_backend", "memcached"},
			{"store_backend", "sqlite"},
			{"api_url", "ftp://example.com"},
			{"listen_addr", ""},
		}
		for _, tc := range cases {
			Convey("When "+tc.key+" is bad", func() {
				_, err := Load(ctx, LoadOptions{Overrides: map[string]any{tc.key: tc.val}})
				So(errors.Is(err, ErrInvalidConfig), ShouldBeTrue)
			})
		}
	})
}

package cli

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/matzehuels/zonecut/pkg/article"
	"github.com/matzehuels/zonecut/pkg/xycut"
	"github.com/matzehuels/zonecut/pkg/zone"
)

func TestLoadConfig(t *testing.T) {
	path := writeFile(t, filepath.Join(t.TempDir(), "config.toml"), `
[analysis]
strategy = "bands"
min_gap = 2
distance_scale = 150.0
orphans = "singletons"

[[analysis.bonus]]
from = "Headline"
to = "SubHeadline"
factor = 3.0

[cache]
backend = "redis"
redis_addr = "localhost:6379"
prefix = "tenant-a"

[store]
backend = "mongo"
mongo_uri = "mongodb://localhost:27017"

[server]
addr = ":9090"
timeout = "30s"
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Analysis.MinGap != 2 || cfg.Analysis.DistanceScale != 150 || cfg.Analysis.Orphans != "singletons" {
		t.Errorf("analysis = %+v", cfg.Analysis)
	}
	if opts := cfg.Analysis.Options(); opts.Strategy != xycut.StrategyBands {
		t.Errorf("strategy = %q, want bands", opts.Strategy)
	}
	if cfg.Analysis.AlignmentBonus != DefaultConfig().Analysis.AlignmentBonus {
		t.Error("keys missing from the file should keep their defaults")
	}
	if len(cfg.Analysis.Bonuses) != 1 || cfg.Analysis.Bonuses[0].To != zone.LabelSubHeadline {
		t.Errorf("bonuses = %+v", cfg.Analysis.Bonuses)
	}
	if cfg.Cache.Backend != backendRedis || cfg.Cache.Addr != "localhost:6379" || cfg.Cache.Prefix != "tenant-a" {
		t.Errorf("cache = %+v", cfg.Cache)
	}
	if cfg.Store.Backend != backendMongo || cfg.Store.URI != "mongodb://localhost:27017" {
		t.Errorf("store = %+v", cfg.Store)
	}
	if cfg.Server.Addr != ":9090" || cfg.Server.Timeout.Seconds() != 30 {
		t.Errorf("server = %+v", cfg.Server)
	}

	opts := cfg.Analysis.Options()
	if opts.Orphans != article.OrphansSingletons || opts.LabelBonuses[0].Factor != 3 {
		t.Errorf("Options() = %+v", opts)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name    string
		content string
	}{
		{"syntax", "[analysis\nmin_gap = 1"},
		{"unknown key", "[analysis]\nmin_gapp = 1"},
		{"wrong type", "[analysis]\nmin_gap = \"two\""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, filepath.Join(dir, strings.ReplaceAll(tt.name, " ", "_")+".toml"), tt.content)
			if _, err := LoadConfig(path); err == nil {
				t.Error("LoadConfig should fail")
			}
		})
	}
}

func TestConfigFileAppliesToCommands(t *testing.T) {
	dir := isolate(t)
	writeFile(t, filepath.Join(dir, "config", appName, configFile), "[analysis]\ntext_only = true\n")
	path := writeFile(t, filepath.Join(dir, "page.json"), scenarioPage)

	got, err := execute(t, "order", path)
	if err != nil {
		t.Fatal(err)
	}
	if got != "h\nt\n" {
		t.Errorf("order with text_only config = %q", got)
	}

	// Flags set on the command line win over the file.
	got, err = execute(t, "order", "--text-only=false", path)
	if err != nil {
		t.Fatal(err)
	}
	if got != "h\nt\np\n" {
		t.Errorf("order with flag override = %q", got)
	}

	explicit := writeFile(t, filepath.Join(dir, "other.toml"), "[analysis]\nmin_gap = 0\n")
	got, err = execute(t, "config", "show", "--config", explicit)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(got, "min_gap = 0") || strings.Contains(got, "text_only = true") {
		t.Errorf("config show used the wrong file:\n%s", got)
	}

	got, err = execute(t, "config", "path", "--config", explicit)
	if err != nil || strings.TrimSpace(got) != explicit {
		t.Errorf("config path = %q, %v", got, err)
	}

	if _, err := execute(t, "order", "--config", filepath.Join(dir, "missing.toml"), path); err == nil {
		t.Error("an explicit missing config file should fail")
	}
}

func TestAnalysisFlagsOverride(t *testing.T) {
	cfg := DefaultConfig().Analysis
	cfg.MinGap = 4
	cfg.Orphans = "singletons"

	var f analysisFlags
	cmd := &cobra.Command{Use: "test"}
	f.register(cmd.Flags())
	if err := cmd.Flags().Parse([]string{"--min-value", "1", "--no-label-bonus"}); err != nil {
		t.Fatal(err)
	}

	opts, err := f.options(cmd, cfg)
	if err != nil {
		t.Fatal(err)
	}
	if opts.MinValue != 1 {
		t.Errorf("MinValue = %d, want the flag value", opts.MinValue)
	}
	if opts.MinGap != 4 || opts.Orphans != article.OrphansSingletons {
		t.Errorf("unset flags should keep config values: %+v", opts)
	}
	if opts.LabelBonuses == nil || len(opts.LabelBonuses) != 0 {
		t.Errorf("--no-label-bonus should disable bonuses: %v", opts.LabelBonuses)
	}

	if opts.Strategy != xycut.StrategyXYCut {
		t.Errorf("Strategy = %q, want the default", opts.Strategy)
	}

	if err := cmd.Flags().Parse([]string{"--strategy", "bands"}); err != nil {
		t.Fatal(err)
	}
	if opts, err = f.options(cmd, cfg); err != nil || opts.Strategy != xycut.StrategyBands {
		t.Errorf("--strategy bands = %q, %v", opts.Strategy, err)
	}

	if err := cmd.Flags().Parse([]string{"--orphans", "nowhere"}); err != nil {
		t.Fatal(err)
	}
	if _, err := f.options(cmd, cfg); err == nil {
		t.Error("unknown orphan policy should fail")
	}
}

package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dgallion1/teigest/internal/metadata"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir()) // no .env here
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "8090" {
		t.Errorf("expected port 8090, got %q", cfg.Port)
	}
	if cfg.WorkerCount != 4 || cfg.MaxQueueSize != 100 {
		t.Errorf("unexpected pool defaults: %d workers, queue %d", cfg.WorkerCount, cfg.MaxQueueSize)
	}
	if cfg.JobTTL != time.Hour || cfg.DocumentTimeout != 5*time.Minute {
		t.Errorf("unexpected durations: ttl %v, timeout %v", cfg.JobTTL, cfg.DocumentTimeout)
	}
	if cfg.CorpusConfigName != "default" {
		t.Errorf("expected default config name, got %q", cfg.CorpusConfigName)
	}
	if !cfg.PDFFallbackPdftotext {
		t.Error("expected pdftotext fallback on by default")
	}
}

func TestLoad_Environment(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PORT", "9000")
	t.Setenv("WORKER_COUNT", "0")
	t.Setenv("JOB_TTL", "30m")
	t.Setenv("OUTPUT_DIR", "/srv/tei")
	t.Setenv("PDF_FALLBACK_PDFTOTEXT", "false")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "9000" {
		t.Errorf("expected port 9000, got %q", cfg.Port)
	}
	if cfg.WorkerCount != 4 {
		t.Errorf("expected non-positive worker count to fall back to 4, got %d", cfg.WorkerCount)
	}
	if cfg.JobTTL != 30*time.Minute {
		t.Errorf("expected 30m ttl, got %v", cfg.JobTTL)
	}
	if cfg.OutputDir != "/srv/tei" {
		t.Errorf("expected output dir, got %q", cfg.OutputDir)
	}
	if cfg.PDFFallbackPdftotext {
		t.Error("expected pdftotext fallback off")
	}
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("TEIGEST_API_KEY=from-dotenv\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("TEIGEST_API_KEY", "")
	os.Unsetenv("TEIGEST_API_KEY")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.APIKey != "from-dotenv" {
		t.Errorf("expected key from .env, got %q", cfg.APIKey)
	}
}

func TestLoad_BadValue(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("JOB_TTL", "soon")
	if _, err := Load(); err == nil {
		t.Error("expected error for unparsable duration")
	}
}

func TestValidateServer(t *testing.T) {
	cfg := Config{FacsBaseURL: "https://example.org"}
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := cfg.ValidateServer(); err == nil {
		t.Error("expected missing API key error")
	}
	cfg.APIKey = "k"
	if err := cfg.ValidateServer(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	cfg.FacsBaseURL = ""
	if err := cfg.Validate(); err == nil {
		t.Error("expected missing facs base URL error")
	}
}

func TestCorpus_SaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corpus.yaml")
	c := &Corpus{Name: "default", Path: path}
	if err := c.Set(metadata.CollectionRecords, "tei", "/corpus/records"); err != nil {
		t.Fatal(err)
	}
	if err := c.Set(metadata.CollectionRecords, "alto", "/scans/records"); err != nil {
		t.Fatal(err)
	}
	if err := c.Set(metadata.CollectionRegister, "alto", "/scans/register"); err != nil {
		t.Fatal(err)
	}
	if err := c.Save(); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := LoadCorpus(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Name != "default" || got.Path != path {
		t.Errorf("unexpected identity: %q at %q", got.Name, got.Path)
	}
	roots := got.Roots("alto")
	if len(roots) != 2 || roots[0] != "/scans/records" || roots[1] != "/scans/register" {
		t.Errorf("unexpected alto roots: %v", roots)
	}
	if len(got.Roots("pdf")) != 0 {
		t.Error("expected no pdf roots")
	}
}

func TestLoadCorpus_NotFound(t *testing.T) {
	_, err := LoadCorpus(filepath.Join(t.TempDir(), "missing.yaml"))
	if !errors.Is(err, ErrConfigNotFound) {
		t.Errorf("expected ErrConfigNotFound, got %v", err)
	}
}

func TestOutput_Path(t *testing.T) {
	meta, err := metadata.Infer("prot_1877_adeln_012.xml")
	if err != nil {
		t.Fatal(err)
	}

	o := Output{Dir: "/out"}
	got, err := o.Path(meta)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := filepath.Join("/out", "records", "1877", "prot_1877_adeln_012.xml"); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}

	c := &Corpus{Name: "c"}
	c.Set(metadata.CollectionRecords, "tei", "/corpus/records")
	got, err = Output{Corpus: c}.Path(meta)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := filepath.Join("/corpus/records", "data", "1877", "prot_1877_adeln_012.xml"); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}

	hand, _ := metadata.Infer("hand_1877_adeln_001")
	if _, err := (Output{Corpus: c}).Path(hand); err == nil {
		t.Error("expected error for collection without tei location")
	}
	if _, err := (Output{}).Path(meta); err == nil {
		t.Error("expected error without any destination")
	}
}

func TestResolveOutput(t *testing.T) {
	dir := t.TempDir()
	cfg := Config{CorpusRegistry: filepath.Join(dir, RegistryFileName), CorpusConfigName: "default", OutputDir: "/out"}

	o, err := ResolveOutput(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if o.Dir != "/out" || o.Corpus != nil {
		t.Errorf("expected output dir only, got %+v", o)
	}

	cfg.OutputDir = ""
	if _, err := ResolveOutput(cfg); !errors.Is(err, ErrConfigNotFound) {
		t.Errorf("expected ErrConfigNotFound, got %v", err)
	}
}

func TestRegistry_TrackLookup(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reg", RegistryFileName)
	reg, err := LoadRegistry(path)
	if err != nil {
		t.Fatalf("load empty: %v", err)
	}
	if err := reg.Track("main", "/corpus/main.yaml", false); err != nil {
		t.Fatalf("track: %v", err)
	}
	if err := reg.Track("main", "/corpus/other.yaml", false); !errors.Is(err, ErrConfigExists) {
		t.Errorf("expected ErrConfigExists, got %v", err)
	}
	if err := reg.Track("main", "/corpus/other.yaml", true); err != nil {
		t.Errorf("overwrite: %v", err)
	}

	again, err := LoadRegistry(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	loc, err := again.Lookup("main")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if loc != "/corpus/other.yaml" {
		t.Errorf("expected overwritten location, got %q", loc)
	}
	if _, err := again.Lookup("nope"); !errors.Is(err, ErrConfigNotFound) {
		t.Errorf("expected ErrConfigNotFound, got %v", err)
	}
}

func TestRegistry_CreateAndResolve(t *testing.T) {
	dir := t.TempDir()
	regPath := filepath.Join(dir, RegistryFileName)
	reg, err := LoadRegistry(regPath)
	if err != nil {
		t.Fatal(err)
	}

	c := &Corpus{}
	c.Set(metadata.CollectionHandlingar, "pdf", "/scans/handlingar")
	if err := reg.Create("scans", filepath.Join(dir, "scans.yaml"), c); err != nil {
		t.Fatalf("create: %v", err)
	}
	if names := reg.Names(); len(names) != 1 || names[0] != "scans" {
		t.Errorf("unexpected names: %v", names)
	}

	got, err := ResolveCorpus(Config{CorpusRegistry: regPath, CorpusConfigName: "scans"})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got.Name != "scans" || got.Handlingar["pdf"] != "/scans/handlingar" {
		t.Errorf("unexpected corpus: %+v", got)
	}

	direct, err := ResolveCorpus(Config{CorpusConfig: filepath.Join(dir, "scans.yaml")})
	if err != nil {
		t.Fatalf("resolve by path: %v", err)
	}
	if direct.Name != "scans" {
		t.Errorf("unexpected name %q", direct.Name)
	}
}

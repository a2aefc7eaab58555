package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/ayusman/abhinaya/internal/app"
	"github.com/ayusman/abhinaya/internal/config"
	"github.com/ayusman/abhinaya/internal/detector"
	"github.com/ayusman/abhinaya/internal/gesture"
	"github.com/ayusman/abhinaya/internal/server"
	"github.com/ayusman/abhinaya/internal/store"
	"github.com/ayusman/abhinaya/internal/tray"
)

func main() {
	configDir := flag.String("config", "config", "directory holding thresholds.yaml, settings.yaml, and phrases.yaml")
	addr := flag.String("addr", "", "listen address, overrides settings.yaml")
	localCamera := flag.Bool("camera", false, "run detection on the local camera with a system tray")
	flag.Parse()

	fmt.Println("Abhinaya - Face Gesture Communication")

	// Invalid configuration is fatal; the detector never starts with an
	// inconsistent threshold set.
	thresholds, err := config.LoadThresholds(filepath.Join(*configDir, "thresholds.yaml"))
	if err != nil {
		log.Fatalf("Failed to load thresholds: %v", err)
	}

	settings, err := config.LoadSettings(filepath.Join(*configDir, "settings.yaml"))
	if err != nil {
		log.Fatalf("Failed to load settings: %v", err)
	}
	if *addr != "" {
		settings.Server.Addr = *addr
	}

	st, err := openStore(settings)
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer st.Close()

	if err := importPhrases(st, filepath.Join(*configDir, "phrases.yaml")); err != nil {
		log.Fatalf("Failed to import phrases: %v", err)
	}

	webDir := settings.Server.StaticDir
	if webDir == "" {
		webDir = findWebDir()
	}
	if webDir != "" {
		fmt.Printf("Serving static files from: %s\n", webDir)
	}

	det := newDetector()
	defer det.Close()

	cfg := server.Config{
		StaticDir:  webDir,
		Store:      st,
		Detector:   det,
		Thresholds: thresholds,
	}

	if *localCamera {
		runWithLocalCamera(cfg, settings, thresholds, st)
		return
	}

	srv := server.New(cfg)
	fmt.Printf("Starting server on %s\n", settings.Server.Addr)
	if err := srv.ListenAndServe(settings.Server.Addr); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

// newDetector prefers MediaPipe and falls back to the mock detector so the
// server still comes up on machines without the face mesh service.
func newDetector() detector.Detector {
	if mp, err := detector.NewMediaPipeDetector(detector.DefaultConfig()); err == nil {
		log.Println("Using MediaPipe face detection")
		return mp
	} else {
		log.Printf("MediaPipe not available (%v), using mock detector", err)
	}
	return detector.NewMockDetector()
}

// runWithLocalCamera starts the local-camera detection pipeline plus the
// system tray, with the HTTP server in the background.
func runWithLocalCamera(cfg server.Config, settings config.Settings, thresholds gesture.Thresholds, st *store.Store) {
	a := app.New(app.Config{
		Store:           st,
		Thresholds:      thresholds,
		PluginDir:       settings.Plugins.Dir,
		PluginTimeoutMs: settings.Plugins.TimeoutMs,
		CameraID:        settings.Camera.DeviceID,
		Width:           settings.Camera.Width,
		Height:          settings.Camera.Height,
	})
	a.SetDetector(cfg.Detector)

	if err := a.DiscoverPlugins(); err != nil {
		log.Printf("Plugin discovery failed: %v", err)
	}

	cfg.Camera = a.Camera()
	srv := server.New(cfg)
	go func() {
		fmt.Printf("Starting server on %s\n", settings.Server.Addr)
		if err := srv.ListenAndServe(settings.Server.Addr); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	if err := a.Start(); err != nil {
		log.Fatalf("Failed to start detection pipeline: %v", err)
	}
	a.SetEnabled(true)

	tr := tray.New()
	a.OnGesture(func(ev *gesture.Event) {
		tr.SetLastGesture(ev.Type.Name())
	})
	tr.OnToggle(func(enabled bool) {
		a.SetEnabled(enabled)
	})
	tr.OnOpenUI(func() {
		openBrowser("http://localhost" + settings.Server.Addr)
	})
	tr.OnQuit(func() {
		a.Stop()
	})

	tr.Run()
}

// openStore opens the SQLite database, defaulting to ~/.abhinaya/abhinaya.db
// when no path is configured.
func openStore(settings config.Settings) (*store.Store, error) {
	dbPath := settings.Storage.Path
	if dbPath == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		dbDir := filepath.Join(homeDir, ".abhinaya")
		if err := os.MkdirAll(dbDir, 0755); err != nil {
			return nil, err
		}
		dbPath = filepath.Join(dbDir, "abhinaya.db")
	}
	return store.New(dbPath)
}

// importPhrases seeds the phrase board from phrases.yaml. Existing custom
// phrases are preserved; seeded phrases are refreshed to the file's content.
func importPhrases(st *store.Store, path string) error {
	categories, custom, err := config.LoadPhrases(path)
	if err != nil {
		return err
	}

	repo := st.Phrases()
	for i, c := range categories {
		cat := &store.Category{ID: c.Name, Name: c.Name, Icon: c.Icon, Position: i}
		if err := repo.UpsertCategory(cat); err != nil {
			return err
		}
		for _, p := range c.Phrases {
			if err := repo.Upsert(&store.Phrase{ID: p.ID, CategoryID: cat.ID, Text: p.Text, Short: p.Short}); err != nil {
				return err
			}
		}
	}
	for _, p := range custom {
		if err := repo.Upsert(&store.Phrase{ID: p.ID, Text: p.Text, Short: p.Short, Custom: true}); err != nil {
			return err
		}
	}
	return nil
}

// openBrowser opens url with the platform's default browser.
func openBrowser(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	if err := cmd.Start(); err != nil {
		log.Printf("Failed to open browser: %v", err)
	}
}

// findWebDir searches for the web directory in common locations.
// It checks: "web", "../web", "../../web", and ~/.abhinaya/web.
// Returns the first existing directory or empty string if none found.
func findWebDir() string {
	relativePaths := []string{"web", "../web", "../../web"}
	for _, p := range relativePaths {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			absPath, err := filepath.Abs(p)
			if err == nil {
				return absPath
			}
			return p
		}
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	homeWebDir := filepath.Join(homeDir, ".abhinaya", "web")
	if info, err := os.Stat(homeWebDir); err == nil && info.IsDir() {
		return homeWebDir
	}

	return ""
}

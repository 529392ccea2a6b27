// picasa-extract exports albums, face tags, and contacts from a photo organizer's descriptor files.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	_ "image/jpeg"
	_ "image/png"

	"github.com/fsnotify/fsnotify"
	"github.com/joho/godotenv"
	"k8s.io/klog/v2"

	"github.com/tstromberg/picasa-extract/pkg/picasa"
	"github.com/tstromberg/picasa-extract/pkg/serve"
	"github.com/tstromberg/picasa-extract/pkg/store"
)

var (
	rootFlag     = flag.String("root", "", "Location of the photo tree to scan [$PICASA_ROOT]")
	contactsFlag = flag.String("contacts", "", "Location of contacts.xml [$PICASA_CONTACTS]")
	jsonFlag     = flag.String("json", "", "Write the extraction as JSON to this path [$PICASA_JSON]")
	driverFlag   = flag.String("db-driver", "", "Database driver: sqlite3 or postgres [$PICASA_DB_DRIVER]")
	dbFlag       = flag.String("db", "", "SQLite path or PostgreSQL connection string [$PICASA_DB]")
	cropsFlag    = flag.String("crops", "", "Write face crops under this directory [$PICASA_CROPS]")
	listen       = flag.Bool("listen", false, "serve the extraction via HTTP")
	addr         = flag.String("addr", "", "host:port to bind to in listen mode [$PICASA_ADDR]")
	watchFlag    = flag.Bool("watch", false, "watch for descriptor changes and re-extract")
)

// debounce is how long to wait for a burst of writes to settle.
var debounce = 500 * time.Millisecond

func main() {
	klog.InitFlags(nil)
	flag.Parse()

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		klog.Exitf("load .env: %v", err)
	}

	c := &picasa.Config{
		Root:         orEnv(*rootFlag, "PICASA_ROOT", ""),
		ContactsFile: orEnv(*contactsFlag, "PICASA_CONTACTS", ""),
		JSONOut:      orEnv(*jsonFlag, "PICASA_JSON", ""),
		DBDriver:     orEnv(*driverFlag, "PICASA_DB_DRIVER", "sqlite3"),
		DBSource:     orEnv(*dbFlag, "PICASA_DB", ""),
		CropDir:      orEnv(*cropsFlag, "PICASA_CROPS", ""),
	}
	listenAddr := orEnv(*addr, "PICASA_ADDR", "localhost:12800")

	if c.Root == "" {
		klog.Exitf("--root is a required flag")
	}

	if c.JSONOut == "" && c.DBSource == "" && !*listen {
		klog.Exitf("nothing to do: pass --json, --db, or --listen")
	}

	dims, err := picasa.NewExifDimensions()
	if err != nil {
		klog.Exitf("exiftool failed: %v", err)
	}
	defer dims.Close()

	e, err := run(c, dims)
	if err != nil {
		klog.Exitf("extract failed: %v", err)
	}

	srv := serve.New(e)

	var wg sync.WaitGroup
	if *watchFlag {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := watch(c, e, func() {
				ne, err := run(c, dims)
				if err != nil {
					klog.Errorf("re-extract failed: %v", err)
					return
				}
				srv.SetExport(ne)
			}); err != nil {
				klog.Exitf("watch failed: %v", err)
			}
		}()
	}

	if *listen {
		wg.Add(1)
		go func() {
			defer wg.Done()
			klog.Infof("Listening on %s...", listenAddr)
			if err := http.ListenAndServe(listenAddr, srv.Router()); err != nil {
				klog.Exitf("listen failed: %v", err)
			}
		}()
	}

	wg.Wait()
}

func orEnv(v string, key string, def string) string {
	if v != "" {
		return v
	}
	if ev := os.Getenv(key); ev != "" {
		return ev
	}
	return def
}

// run extracts once and writes every configured output.
func run(c *picasa.Config, dims picasa.DimensionReader) (*picasa.Export, error) {
	e, err := picasa.Extract(c, dims)
	if err != nil {
		return nil, err
	}

	if c.JSONOut != "" {
		if err := picasa.WriteJSON(c.JSONOut, e); err != nil {
			return nil, fmt.Errorf("write json: %w", err)
		}
	}

	if c.DBSource != "" {
		s, err := store.Open(c.DBDriver, c.DBSource)
		if err != nil {
			return nil, fmt.Errorf("open store: %w", err)
		}
		defer s.Close()
		if err := s.Persist(e); err != nil {
			return nil, fmt.Errorf("persist: %w", err)
		}
	}

	if c.CropDir != "" {
		if _, err := picasa.WriteCrops(e, c.CropDir); err != nil {
			return nil, fmt.Errorf("crops: %w", err)
		}
	}

	return e, nil
}

// watch calls rebuild whenever a descriptor or the contacts file changes.
func watch(c *picasa.Config, e *picasa.Export, rebuild func()) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("new watcher: %w", err)
	}
	defer w.Close()

	dirs := []string{c.Root}
	for _, a := range e.Albums {
		dirs = append(dirs, a.Directory)
	}
	if c.ContactsFile != "" {
		dirs = append(dirs, filepath.Dir(c.ContactsFile))
	}
	slices.Sort(dirs)
	dirs = slices.Compact(dirs)

	klog.Infof("watching %d dirs ...", len(dirs))
	for _, d := range dirs {
		if err := w.Add(d); err != nil {
			return fmt.Errorf("watch %s: %w", d, err)
		}
	}

	relevant := func(path string) bool {
		base := filepath.Base(path)
		return path == c.ContactsFile || picasa.IsDescriptor(base)
	}

	var pending <-chan time.Time
	for {
		select {
		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			klog.V(1).Infof("event: %s", event)
			if !relevant(event.Name) {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) || event.Has(fsnotify.Remove) {
				pending = time.After(debounce)
			}
		case <-pending:
			pending = nil
			klog.Infof("change detected, re-extracting ...")
			rebuild()
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			klog.Errorf("watch error: %v", err)
		}
	}
}

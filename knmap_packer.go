package main

import (
	"flag"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/mogaika/knmap_packer/config"
	"github.com/mogaika/knmap_packer/knmap"
	"github.com/mogaika/knmap_packer/knmap/builders/copydriver"
	"github.com/mogaika/knmap_packer/knmap/builders/execdriver"
	"github.com/mogaika/knmap_packer/web"
)

func main() {
	var addr, dir, creator, settingsPath, encoding, compiler, prebuilt, webPath string
	flag.StringVar(&addr, "i", ":8000", "Address of server")
	flag.StringVar(&dir, "dir", "", "Path to project directory (required)")
	flag.StringVar(&creator, "creator", "", "Creator name embedded in cache and bundle headers")
	flag.StringVar(&settingsPath, "settings", "", "Path to yaml settings file")
	flag.StringVar(&encoding, "encoding", "", "Engine text encoding name")
	flag.StringVar(&compiler, "compiler", "", "Path to external scene compiler binary")
	flag.StringVar(&prebuilt, "prebuilt", "", "Directory with pre-compiled bundles")
	flag.StringVar(&webPath, "web", "web", "Path to web UI files")
	flag.Parse()

	if encoding != "" {
		if err := config.SetEncoding(encoding); err != nil {
			log.Printf("%v. Available encodings: %v", err, strings.Join(config.ListEncodings(), ", "))
			os.Exit(1)
		}
	}

	if dir == "" {
		flag.PrintDefaults()
		return
	}

	cfg := config.NewDefaultConfig(creator)

	if settingsPath != "" {
		s, err := config.LoadSettings(settingsPath)
		if err != nil {
			log.Fatal(err)
		}
		if err := s.Apply(cfg); err != nil {
			log.Fatal(err)
		}
		// the -creator flag wins over the settings file
		if creator != "" {
			cfg.CreatorName = creator
		}
	}

	var builder knmap.Builder
	if compiler != "" {
		builder = execdriver.NewExecDriver(compiler)
	} else if prebuilt != "" {
		builder = copydriver.NewCopyDriver(prebuilt)
	} else {
		log.Fatal("Either -compiler or -prebuilt must be provided")
	}

	resolver := knmap.NewFileResolver(dir)
	registry := knmap.NewRegistry(cfg)

	cachePath := filepath.Join(dir, cfg.CacheFileName)
	if err := registry.LoadCache(cachePath, resolver); err != nil {
		if os.IsNotExist(errors.Cause(err)) {
			log.Printf("[main] No map cache at %q, starting empty", cachePath)
		} else {
			log.Printf("[main] Failed to load map cache: %v", err)
		}
	}

	if err := web.StartServer(addr, web.NewServer(cfg, registry, resolver, builder, dir), webPath); err != nil {
		log.Fatal(err)
	}
}

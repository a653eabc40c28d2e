package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/kingrea/keysign/internal/signing"
	"github.com/kingrea/keysign/internal/tui"
)

const defaultStoreFile = "upload-keystore.jks"

func runInit(args []string, stdout, stderr io.Writer) error {
	var common commonFlags
	set := newFlagSet("init", stderr, &common)
	force := set.Bool("force", false, "overwrite an existing properties file")
	if err := parseFlags(set, args); err != nil {
		return err
	}
	s, err := openSession(common)
	if err != nil {
		return err
	}
	if !*force && fileExists(s.propertiesPath) {
		return fmt.Errorf("%s already exists (use -force to overwrite)", s.propertiesPath)
	}

	form := tui.NewInitForm(s.propertiesPath, signing.Credentials{StoreFile: defaultStoreFile})
	if _, err := tea.NewProgram(form, tea.WithOutput(stdout)).Run(); err != nil {
		return fmt.Errorf("run form: %w", err)
	}
	creds, ok := form.Result()
	if !ok {
		fmt.Fprintln(stderr, "Cancelled; nothing written.")
		return errReported
	}

	if err := writeCredentials(s.propertiesPath, creds, *force); err != nil {
		s.log.Error("init: %v", err)
		return err
	}
	s.log.Info("wrote %s", s.propertiesPath)
	if common.properties != "" {
		if err := s.cfg.SetPropertiesPath(s.propertiesPath); err != nil {
			return err
		}
	}
	fmt.Fprintf(stdout, "Wrote %s\n", s.propertiesPath)

	// The keystore is usually generated separately; say so rather than fail.
	if _, err := s.resolve(); err != nil {
		if errors.Is(err, signing.ErrMissingKeystore) {
			fmt.Fprintf(stderr, "Warning: %v\n", err)
			return nil
		}
		return err
	}
	return nil
}

// writeCredentials writes creds to path with owner-only permissions. The
// document is fully encoded before the file is touched.
func writeCredentials(path string, creds signing.Credentials, force bool) error {
	var buf bytes.Buffer
	if err := signing.WriteProperties(&buf, creds); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("ensure %s: %w", filepath.Dir(path), err)
	}
	flags := os.O_CREATE | os.O_WRONLY | os.O_TRUNC
	if !force {
		flags |= os.O_EXCL
	}
	file, err := os.OpenFile(path, flags, 0o600)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return fmt.Errorf("%s already exists (use -force to overwrite)", path)
		}
		return fmt.Errorf("open %s: %w", path, err)
	}
	if _, err := file.Write(buf.Bytes()); err != nil {
		file.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return file.Close()
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

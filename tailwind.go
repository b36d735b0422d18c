package main

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/Lexer747/folio/config"
	"github.com/Lexer747/folio/fsutil"
	"github.com/Lexer747/folio/site"
)

func writeStylesheet(cfg config.Config, s *site.Site) error {
	css, err := s.Stylesheet()
	if err != nil {
		return err
	}
	dest := filepath.Join(cfg.OutputDir, filepath.FromSlash(site.StylePath))
	if !cfg.Tailwind {
		return fsutil.WriteFile(dest, css)
	}
	return runTailwind(cfg, css, dest)
}

func runTailwind(cfg config.Config, css []byte, dest string) error {
	cmdCssInput, err := addGeneratedCss(cfg, css)
	if err != nil {
		return err
	}
	defer os.Remove(cmdCssInput)

	cmd := exec.Command("tailwindcss")
	cmd.Args = append(cmd.Args,
		"--input", cmdCssInput,
		"--output", dest,
		"--minify",
	)
	stdout := bytes.Buffer{}
	stderr := bytes.Buffer{}
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return wrapf(err, "failed to run tailwind\nstdout: %s\nstderr: %s", stdout.String(), stderr.String())
	}
	return nil
}

func addGeneratedCss(cfg config.Config, css []byte) (string, error) {
	var inputCSS []byte
	if cfg.TailwindInput != "" {
		var err error
		inputCSS, err = os.ReadFile(cfg.TailwindInput)
		if err != nil {
			return "", wrap(err, "unable to get input css")
		}
		inputCSS = append(inputCSS, '\n', '\n')
	}
	inputCSS = append(inputCSS, css...)

	cmdCssInput := filepath.Join(cfg.OutputDir, "input-generated.css")
	if err := fsutil.WriteFile(cmdCssInput, inputCSS); err != nil {
		return "", wrap(err, "unable to write css file")
	}
	return cmdCssInput, nil
}

// Package service installs the assistant as a macOS launchd agent so the
// reminder scheduler keeps running across logins.
package service

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/chris/nudge/config"
	"github.com/joho/godotenv"
	"github.com/m-mizutani/goerr/v2"
)

const (
	Label   = "com.nudge.agent"
	binName = "nudge"
)

// Layout is where the service's files live on disk.
type Layout struct {
	Home   string
	BinDir string
}

func DefaultLayout() Layout {
	home, _ := os.UserHomeDir()
	return Layout{Home: home, BinDir: "/usr/local/bin"}
}

func (l Layout) Binary() string    { return filepath.Join(l.BinDir, binName) }
func (l Layout) PlistDir() string  { return filepath.Join(l.Home, "Library", "LaunchAgents") }
func (l Layout) Plist() string     { return filepath.Join(l.PlistDir(), Label+".plist") }
func (l Layout) LogDir() string    { return filepath.Join(l.Home, "Library", "Logs") }
func (l Layout) StdoutLog() string { return filepath.Join(l.LogDir(), binName+"-stdout.log") }
func (l Layout) StderrLog() string { return filepath.Join(l.LogDir(), binName+"-stderr.log") }

// Manager drives launchctl. Out receives progress lines.
type Manager struct {
	Layout Layout
	Out    io.Writer
	run    func(args ...string) error
}

func NewManager(out io.Writer) *Manager {
	return &Manager{Layout: DefaultLayout(), Out: out, run: launchctl}
}

// Install copies the running binary into BinDir, seeds the config file from
// .env when none exists, writes the plist and loads it.
func (m *Manager) Install() error {
	exe, err := os.Executable()
	if err != nil {
		return goerr.Wrap(err, "resolving executable path")
	}
	if exe, err = filepath.EvalSymlinks(exe); err != nil {
		return goerr.Wrap(err, "resolving symlinks")
	}
	if err := copyFile(exe, m.Layout.Binary(), 0755); err != nil {
		return err
	}
	fmt.Fprintf(m.Out, "installed binary to %s\n", m.Layout.Binary())

	if err := seedConfig(".env", config.ConfigFile()); err != nil {
		return err
	}

	plist, err := renderPlist(m.Layout, resolveWorkDir(config.ConfigFile()))
	if err != nil {
		return goerr.Wrap(err, "generating plist")
	}
	if _, err := os.Stat(m.Layout.Plist()); err == nil {
		_ = m.run("unload", m.Layout.Plist())
	}
	if err := os.MkdirAll(m.Layout.PlistDir(), 0755); err != nil {
		return goerr.Wrap(err, "creating LaunchAgents dir")
	}
	if err := os.WriteFile(m.Layout.Plist(), []byte(plist), 0644); err != nil {
		return goerr.Wrap(err, "writing plist", goerr.V("path", m.Layout.Plist()))
	}
	fmt.Fprintf(m.Out, "wrote plist to %s\n", m.Layout.Plist())

	if err := m.run("load", m.Layout.Plist()); err != nil {
		return goerr.Wrap(err, "loading plist")
	}
	fmt.Fprintln(m.Out, "service loaded and will start on login")
	return nil
}

// Uninstall unloads and removes the plist and the installed binary.
func (m *Manager) Uninstall() error {
	if _, err := os.Stat(m.Layout.Plist()); err == nil {
		if err := m.run("unload", m.Layout.Plist()); err != nil {
			fmt.Fprintf(m.Out, "warning: unload failed: %v\n", err)
		}
		if err := os.Remove(m.Layout.Plist()); err != nil {
			return goerr.Wrap(err, "removing plist")
		}
		fmt.Fprintf(m.Out, "removed %s\n", m.Layout.Plist())
	} else {
		fmt.Fprintln(m.Out, "plist not found, skipping")
	}

	if _, err := os.Stat(m.Layout.Binary()); err == nil {
		if err := os.Remove(m.Layout.Binary()); err != nil {
			return goerr.Wrap(err, "removing binary")
		}
		fmt.Fprintf(m.Out, "removed %s\n", m.Layout.Binary())
	}
	fmt.Fprintln(m.Out, "uninstalled")
	return nil
}

func (m *Manager) Start() error { return m.run("start", Label) }
func (m *Manager) Stop() error  { return m.run("stop", Label) }

func (m *Manager) Restart() error {
	_ = m.Stop()
	return m.Start()
}

func (m *Manager) Status() error {
	cmd := exec.Command("launchctl", "list", Label)
	cmd.Stdout = m.Out
	cmd.Stderr = m.Out
	if err := cmd.Run(); err != nil {
		fmt.Fprintln(m.Out, "service is not loaded")
	}
	return nil
}

// Logs follows both log files until interrupted.
func (m *Manager) Logs() error {
	cmd := exec.Command("tail", "-f", m.Layout.StdoutLog(), m.Layout.StderrLog())
	cmd.Stdout = m.Out
	cmd.Stderr = m.Out
	return cmd.Run()
}

func copyFile(src, dst string, mode os.FileMode) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return goerr.Wrap(err, "reading binary", goerr.V("path", src))
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return goerr.Wrap(err, "creating directory", goerr.V("path", filepath.Dir(dst)))
	}
	if err := os.WriteFile(dst, data, mode); err != nil {
		return goerr.Wrap(err, "copying binary", goerr.V("path", dst))
	}
	return nil
}

// seedConfig copies envFile to configFile unless configFile already exists.
func seedConfig(envFile, configFile string) error {
	if _, err := os.Stat(configFile); err == nil {
		return nil
	}
	data, err := os.ReadFile(envFile)
	if err != nil {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(configFile), 0700); err != nil {
		return goerr.Wrap(err, "creating config dir")
	}
	if err := os.WriteFile(configFile, data, 0600); err != nil {
		return goerr.Wrap(err, "writing config", goerr.V("path", configFile))
	}
	return nil
}

// resolveWorkDir is the current directory when the configured database path
// is relative, otherwise the config directory.
func resolveWorkDir(configFile string) string {
	vars, _ := godotenv.Read(configFile)
	if p, ok := vars["DATABASE_PATH"]; ok && !filepath.IsAbs(p) {
		if wd, err := os.Getwd(); err == nil {
			return wd
		}
	}
	return filepath.Dir(configFile)
}

func launchctl(args ...string) error {
	cmd := exec.Command("launchctl", args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return goerr.New("launchctl failed",
			goerr.V("args", strings.Join(args, " ")), goerr.V("stderr", strings.TrimSpace(stderr.String())))
	}
	return nil
}

var plistTemplate = template.Must(template.New("plist").Parse(`<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
	<key>Label</key>
	<string>{{.Label}}</string>
	<key>ProgramArguments</key>
	<array>
		<string>{{.BinPath}}</string>
		<string>run</string>
	</array>
	<key>WorkingDirectory</key>
	<string>{{.WorkDir}}</string>
	<key>RunAtLoad</key>
	<true/>
	<key>KeepAlive</key>
	<true/>
	<key>StandardOutPath</key>
	<string>{{.StdoutLog}}</string>
	<key>StandardErrorPath</key>
	<string>{{.StderrLog}}</string>
</dict>
</plist>
`))

func renderPlist(l Layout, workDir string) (string, error) {
	var buf bytes.Buffer
	err := plistTemplate.Execute(&buf, map[string]string{
		"Label":     Label,
		"BinPath":   l.Binary(),
		"WorkDir":   workDir,
		"StdoutLog": l.StdoutLog(),
		"StderrLog": l.StderrLog(),
	})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}

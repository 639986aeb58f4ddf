package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// DefaultLabel is the profile created by `config init`; it cannot be removed.
const DefaultLabel = "Default"

var (
	ErrNoConfig       = errors.New("no config selected")
	ErrConfigExists   = errors.New("config already exists")
	ErrConfigNotFound = errors.New("config does not exist")
	ErrInvalidLabel   = errors.New("invalid config label")
)

func ConfigRoot() string {
	// Windows
	if appdata := os.Getenv("APPDATA"); appdata != "" {
		return filepath.Join(appdata, "skillquiz")
	}

	// Linux/macOS XDG
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "skillquiz")
	}

	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "skillquiz")
}

func ConfigsDir() string {
	return filepath.Join(ConfigRoot(), "configs")
}

func CurrentLabelFile() string {
	return filepath.Join(ConfigRoot(), "current_config")
}

func ensureDirs() error {
	return os.MkdirAll(ConfigsDir(), 0755)
}

// checkLabel rejects labels that would escape the configs directory.
func checkLabel(label string) error {
	if strings.TrimSpace(label) == "" {
		return fmt.Errorf("%w: label cannot be empty", ErrInvalidLabel)
	}
	if strings.ContainsAny(label, `/\`) || label == "." || label == ".." {
		return fmt.Errorf("%w: %q", ErrInvalidLabel, label)
	}
	return nil
}

func labelPath(label string) string {
	return filepath.Join(ConfigsDir(), label+".yaml")
}

// ConfigPathByLabel returns the path of an existing profile.
func ConfigPathByLabel(label string) (string, error) {
	if err := checkLabel(label); err != nil {
		return "", err
	}

	path := labelPath(label)
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("%w: %q", ErrConfigNotFound, label)
	}
	return path, nil
}

func writeCurrent(label string) error {
	return os.WriteFile(CurrentLabelFile(), []byte(label), 0644)
}

func CurrentLabel() (string, error) {
	if err := ensureDirs(); err != nil {
		return "", err
	}

	b, err := os.ReadFile(CurrentLabelFile())
	if os.IsNotExist(err) {
		return "", ErrNoConfig
	}
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(string(b)), nil
}

func ActiveConfigPath() (string, error) {
	label, err := CurrentLabel()
	if err != nil || label == "" {
		return "", ErrNoConfig
	}

	return labelPath(label), nil
}

type ConfigInfo struct {
	Label  string
	Path   string
	Active bool
}

func ListConfigs() ([]ConfigInfo, error) {
	if err := ensureDirs(); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(ConfigsDir())
	if err != nil {
		return nil, err
	}

	activeLabel, _ := CurrentLabel()
	var out []ConfigInfo

	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".yaml") {
			continue
		}

		label := strings.TrimSuffix(name, ".yaml")
		out = append(out, ConfigInfo{
			Label:  label,
			Path:   filepath.Join(ConfigsDir(), name),
			Active: label == activeLabel,
		})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Label < out[j].Label })
	return out, nil
}

func SwitchConfig(label string) error {
	if _, err := ConfigPathByLabel(label); err != nil {
		return err
	}

	return writeCurrent(label)
}

// CreateConfig writes a profile with default values, or a copy of srcPath
// when it is given.
func CreateConfig(label, srcPath string) (string, error) {
	if err := checkLabel(label); err != nil {
		return "", err
	}
	if err := ensureDirs(); err != nil {
		return "", err
	}

	path := labelPath(label)
	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("%w: %q", ErrConfigExists, label)
	}

	if srcPath == "" {
		return path, SaveYAML(DefaultConfig(), path)
	}

	if _, err := loadYAML(srcPath); err != nil {
		return "", fmt.Errorf("read %s: %w", srcPath, err)
	}
	raw, err := os.ReadFile(srcPath)
	if err != nil {
		return "", err
	}

	return path, os.WriteFile(path, raw, 0644)
}

func RenameConfig(oldLabel, newLabel string) error {
	oldPath, err := ConfigPathByLabel(oldLabel)
	if err != nil {
		return err
	}
	if err := checkLabel(newLabel); err != nil {
		return err
	}

	newPath := labelPath(newLabel)
	if _, err := os.Stat(newPath); err == nil {
		return fmt.Errorf("%w: %q", ErrConfigExists, newLabel)
	}

	if err := os.Rename(oldPath, newPath); err != nil {
		return err
	}

	if active, _ := CurrentLabel(); active == oldLabel {
		return writeCurrent(newLabel)
	}

	return nil
}

// RemoveConfig deletes a profile. Removing the active one switches back to
// Default and reports that through switched.
func RemoveConfig(label string) (switched bool, err error) {
	if label == DefaultLabel {
		return false, errors.New("cannot remove the Default config")
	}

	path, err := ConfigPathByLabel(label)
	if err != nil {
		return false, err
	}

	if active, _ := CurrentLabel(); active == label {
		if err := SwitchConfig(DefaultLabel); err != nil {
			return false, fmt.Errorf("failed switching to Default: %w", err)
		}
		switched = true
	}

	return switched, os.Remove(path)
}

// InitDefaultConfig creates Default.yaml and makes it active. It returns
// os.ErrExist along with the path when the file is already there.
func InitDefaultConfig() (string, error) {
	if err := ensureDirs(); err != nil {
		return "", err
	}

	defPath := labelPath(DefaultLabel)

	if _, err := os.Stat(defPath); err == nil {
		_ = writeCurrent(DefaultLabel)
		return defPath, os.ErrExist
	}

	if err := SaveYAML(DefaultConfig(), defPath); err != nil {
		return "", err
	}

	return defPath, writeCurrent(DefaultLabel)
}

// ResetActive overwrites the active profile with default values.
func ResetActive() (string, error) {
	path, err := ActiveConfigPath()
	if err != nil {
		return "", err
	}

	return path, SaveYAML(DefaultConfig(), path)
}

// internal/tui/render.go
//
// Static renderings used by the non-interactive commands. Nothing here
// touches the terminal; callers print the returned strings.

package tui

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/kingrea/keysign/internal/buildmodel"
	"github.com/kingrea/keysign/internal/signing"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#5B8DEF"))
	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			Width(15)
	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#DDDDDD"))
	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444444")).
			Padding(0, 1)
	errorTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6B6B"))
	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#AAAAAA")).
			MarginTop(1)
)

func row(label, value string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render(label), valueStyle.Render(value))
}

// RenderConfig shows a resolved config with its passwords masked.
func RenderConfig(cfg signing.SigningConfig, propertiesPath string) string {
	body := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("✓ Signing config resolved"),
		"",
		row("properties", propertiesPath),
		row(signing.KeyAlias, cfg.KeyAlias()),
		row(signing.KeyPassword, mask(cfg.KeyPassword())),
		row(signing.StoreFile, cfg.StoreFile()),
		row(signing.StorePassword, mask(cfg.StorePassword())),
	)
	return boxStyle.Render(body)
}

// RenderBuildTypes lists each build type of the namespace and the signing
// config attached to it.
func RenderBuildTypes(namespace string, types []buildmodel.BuildType) string {
	if namespace == "" {
		namespace = "(no namespace)"
	}
	lines := []string{titleStyle.Render("Build types · " + namespace)}
	for _, bt := range types {
		signedWith := bt.SigningConfig
		if signedWith == "" {
			signedWith = "(unchanged)"
		}
		lines = append(lines, row(bt.Name, "signingConfig → "+signedWith))
	}
	return boxStyle.Render(strings.Join(lines, "\n"))
}

// RenderError explains a resolution failure. Signing errors get a hint on
// how to fix them; anything else is shown as-is.
func RenderError(err error) string {
	if err == nil {
		return ""
	}
	head := errorTitleStyle.Render("✗ Release signing unavailable")
	msg := valueStyle.Render(err.Error())
	sections := []string{head, msg}
	if hint := hintFor(err); hint != "" {
		sections = append(sections, hintStyle.Render(hint))
	}
	return boxStyle.BorderForeground(lipgloss.Color("#FF6B6B")).Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

// RenderLog frames the tail of the build log.
func RenderLog(path string, lines []string, total int) string {
	name := filepath.Base(path)
	if name == "." || name == "" {
		name = "log"
	}
	head := titleStyle.Render(fmt.Sprintf("LOG · %s (%d/%d)", name, len(lines), total))
	if len(lines) == 0 {
		return boxStyle.Render(head + "\n" + hintStyle.UnsetMarginTop().Render("No entries yet."))
	}
	body := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#AAAAAA")).
		Render(strings.Join(lines, "\n"))
	return boxStyle.Render(head + "\n" + body)
}

func hintFor(err error) string {
	switch {
	case errors.Is(err, signing.ErrMissingConfig):
		return "Run `keysign init` to create it, or pass -properties."
	case errors.Is(err, signing.ErrIncompleteConfig):
		return "keyAlias, keyPassword, storeFile and storePassword must all be set."
	case errors.Is(err, signing.ErrMissingKeystore):
		return "Relative storeFile paths resolve against the properties file's directory."
	}
	return ""
}

func mask(secret string) string {
	if secret == "" {
		return ""
	}
	return strings.Repeat("•", min(len([]rune(secret)), 8))
}

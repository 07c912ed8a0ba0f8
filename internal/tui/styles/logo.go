package styles

import "github.com/charmbracelet/lipgloss"

// CompactLogo is the one-line product mark.
const CompactLogo = "§ steuerklar"

const logoArt = `     _                            _    _
 ___| |_ ___ _   _  ___ _ __ ___| | _| | __ _ _ __
/ __| __/ _ \ | | |/ _ \ '__/ __| |/ / |/ _' | '__|
\__ \ ||  __/ |_| |  __/ | | (__|   <| | (_| | |
|___/\__\___|\__,_|\___|_|  \___|_|\_\_|\__,_|_|`

// Logo renders the full ASCII logo with its tagline.
func Logo() string {
	art := lipgloss.NewStyle().Foreground(AccentPrimary).Bold(true).Render(logoArt)
	tag := lipgloss.NewStyle().Foreground(TextSecondary).Italic(true).
		Render("Deine Steuererklärung, Schritt für Schritt.")
	return art + "\n" + tag
}

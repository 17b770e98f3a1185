package dispatch

import (
	"log/slog"
	"strings"

	"github.com/dasdy/padkeys/model"
)

// ResolveHotkeys picks the buttons that act as the hotkey. With no override both
// guide and back do, unless emuelec is set, in which case back never does.
func ResolveHotkeys(override string, emuelec bool) model.ButtonState {
	override = strings.ToLower(strings.TrimSpace(override))

	switch override {
	case "":
		if emuelec {
			return model.Guide.Mask()
		}

		return model.Guide.Mask() | model.Back.Mask()
	case "back":
		if emuelec {
			slog.Warn("Back cannot be the hotkey in emuelec mode, using guide")

			return model.Guide.Mask()
		}

		return model.Back.Mask()
	}

	b, ok := model.ParseButton(override)
	if !ok {
		slog.Warn("Unknown hotkey, using guide", "hotkey", override)

		return model.Guide.Mask()
	}

	return b.Mask()
}

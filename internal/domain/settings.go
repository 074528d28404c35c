package domain

import (
	"strings"

	"github.com/Mahamat-Daoud-Aldjiday/ALDJIDAYGESTION/pkg/e"
)

// Theme — тема оформления интерфейса
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Значения настроек по умолчанию
const (
	DefaultShopName  = "ALDJIDAY GESTION"
	DefaultAdminID   = "admin"
	DefaultAdminPass = "12345678"
	DefaultTheme     = ThemeLight
)

// ParseTheme проверяет название темы.
func ParseTheme(s string) (Theme, error) {
	switch Theme(strings.ToLower(strings.TrimSpace(s))) {
	case ThemeLight:
		return ThemeLight, nil
	case ThemeDark:
		return ThemeDark, nil
	default:
		return "", e.ErrInvalidTheme
	}
}

// Settings описывает настройки магазина.
// AdminPass хранится открытым текстом в том же документе, что и данные магазина.
type Settings struct {
	ShopName  string
	AdminID   string
	AdminPass string
	Theme     Theme
}

// SettingsPatch — частичное обновление настроек.
type SettingsPatch struct {
	ShopName  *string
	AdminID   *string
	AdminPass *string
	Theme     *Theme
}

func DefaultSettings() Settings {
	return Settings{
		ShopName:  DefaultShopName,
		AdminID:   DefaultAdminID,
		AdminPass: DefaultAdminPass,
		Theme:     DefaultTheme,
	}
}

// Merge возвращает копию настроек с применённым патчем.
func (s Settings) Merge(patch SettingsPatch) Settings {
	if patch.ShopName != nil {
		s.ShopName = *patch.ShopName
	}
	if patch.AdminID != nil {
		s.AdminID = *patch.AdminID
	}
	if patch.AdminPass != nil {
		s.AdminPass = *patch.AdminPass
	}
	if patch.Theme != nil {
		s.Theme = *patch.Theme
	}

	return s
}

// WithDefaults заполняет пустые поля значениями по умолчанию.
func (s Settings) WithDefaults() Settings {
	def := DefaultSettings()
	if s.ShopName == "" {
		s.ShopName = def.ShopName
	}
	if s.AdminID == "" {
		s.AdminID = def.AdminID
	}
	if s.AdminPass == "" {
		s.AdminPass = def.AdminPass
	}
	if s.Theme != ThemeLight && s.Theme != ThemeDark {
		s.Theme = def.Theme
	}

	return s
}

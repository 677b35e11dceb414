package ui

import (
	"fmt"
	"os"
	"strings"
)

// Localization manages UI text translations
type Localization struct {
	currentLanguage string
	texts           map[string]map[string]string
}

// Text keys for localization
const (
	KeyAppTitle         = "app_title"
	KeyOpenFolder       = "open_folder"
	KeyRefresh          = "refresh"
	KeySettings         = "settings"
	KeyFile             = "file"
	KeyLanguage         = "language"
	KeyGalleryDirectory = "gallery_directory"
	KeyCellSize         = "cell_size"
	KeyCellMargin       = "cell_margin"
	KeyRowPadding       = "row_padding"
	KeyPrefetchRows     = "prefetch_rows"
	KeyMaxParallel      = "max_parallel"
	KeyThumbnailCache   = "thumbnail_cache"
	KeyRecursiveScan    = "recursive_scan"
	KeySave             = "save"
	KeyCancel           = "cancel"
	KeyBrowse           = "browse"
	KeySettingsSaved    = "settings_saved"
	KeyRestartRequired  = "restart_required"
	KeyNoDirectory      = "no_directory"
	KeyScanning         = "scanning"
	KeyImageCount       = "image_count"
	KeyLoadFailed       = "load_failed"
	KeyErrorOpeningFile = "error_opening_file"
	KeyGridSection      = "grid_section"
	KeyInterfaceSection = "interface_section"
)

// NewLocalization creates a new localization manager
func NewLocalization() *Localization {
	l := &Localization{
		currentLanguage: "en",
		texts:           make(map[string]map[string]string),
	}

	l.initializeTexts()
	return l
}

// SetLanguage sets the current language. "system" picks the language from
// the LANG environment variable when it is available.
func (l *Localization) SetLanguage(lang string) {
	if lang == "system" {
		lang = systemLanguage()
	}

	if _, exists := l.texts[lang]; exists {
		l.currentLanguage = lang
	}
}

// systemLanguage extracts "ru" from values such as "ru_RU.UTF-8"
func systemLanguage() string {
	for _, key := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		v := os.Getenv(key)
		if v == "" || v == "C" || v == "POSIX" {
			continue
		}
		code, _, _ := strings.Cut(v, "_")
		code, _, _ = strings.Cut(code, ".")
		return strings.ToLower(code)
	}
	return "en"
}

// GetText returns localized text for the given key
func (l *Localization) GetText(key string) string {
	if texts, exists := l.texts[l.currentLanguage]; exists {
		if text, found := texts[key]; found {
			return text
		}
	}

	// Fallback to English
	if texts, exists := l.texts["en"]; exists {
		if text, found := texts[key]; found {
			return text
		}
	}

	// Final fallback - return key itself
	return key
}

// Format returns the localized format string for key applied to args
func (l *Localization) Format(key string, args ...any) string {
	return fmt.Sprintf(l.GetText(key), args...)
}

// GetCurrentLanguage returns the current language code
func (l *Localization) GetCurrentLanguage() string {
	return l.currentLanguage
}

// GetAvailableLanguages returns map of available languages with their display names
func (l *Localization) GetAvailableLanguages() map[string]string {
	return map[string]string{
		"en": "English",
		"ru": "Русский",
		"pt": "Português",
	}
}

// initializeTexts initializes all text translations
func (l *Localization) initializeTexts() {
	// English texts
	l.texts["en"] = map[string]string{
		KeyAppTitle:         "Image Gallery",
		KeyOpenFolder:       "Open Folder",
		KeyRefresh:          "Refresh",
		KeySettings:         "Settings",
		KeyFile:             "File",
		KeyLanguage:         "Language",
		KeyGalleryDirectory: "Gallery Directory",
		KeyCellSize:         "Thumbnail Size",
		KeyCellMargin:       "Cell Margin",
		KeyRowPadding:       "Row Padding",
		KeyPrefetchRows:     "Rows Loaded Ahead",
		KeyMaxParallel:      "Max Parallel Loads",
		KeyThumbnailCache:   "Cache thumbnails on disk",
		KeyRecursiveScan:    "Include subfolders",
		KeySave:             "Save",
		KeyCancel:           "Cancel",
		KeyBrowse:           "Browse",
		KeySettingsSaved:    "Settings saved successfully!",
		KeyRestartRequired:  "Parallel loads and cache changes apply after restart.",
		KeyNoDirectory:      "No folder opened",
		KeyScanning:         "Scanning %s...",
		KeyImageCount:       "%d images in %s",
		KeyLoadFailed:       "Failed",
		KeyErrorOpeningFile: "Error opening file",
		KeyGridSection:      "Grid",
		KeyInterfaceSection: "Interface",
	}

	// Russian texts
	l.texts["ru"] = map[string]string{
		KeyAppTitle:         "Галерея",
		KeyOpenFolder:       "Открыть папку",
		KeyRefresh:          "Обновить",
		KeySettings:         "Настройки",
		KeyFile:             "Файл",
		KeyLanguage:         "Язык",
		KeyGalleryDirectory: "Папка галереи",
		KeyCellSize:         "Размер миниатюр",
		KeyCellMargin:       "Отступ ячеек",
		KeyRowPadding:       "Отступ строк",
		KeyPrefetchRows:     "Строк загружать заранее",
		KeyMaxParallel:      "Макс. параллельных загрузок",
		KeyThumbnailCache:   "Кэшировать миниатюры на диске",
		KeyRecursiveScan:    "Включать подпапки",
		KeySave:             "Сохранить",
		KeyCancel:           "Отмена",
		KeyBrowse:           "Обзор",
		KeySettingsSaved:    "Настройки успешно сохранены!",
		KeyRestartRequired:  "Параллельность и кэш применяются после перезапуска.",
		KeyNoDirectory:      "Папка не открыта",
		KeyScanning:         "Сканирование %s...",
		KeyImageCount:       "%d изображений в %s",
		KeyLoadFailed:       "Ошибка",
		KeyErrorOpeningFile: "Ошибка открытия файла",
		KeyGridSection:      "Сетка",
		KeyInterfaceSection: "Интерфейс",
	}

	// Portuguese texts
	l.texts["pt"] = map[string]string{
		KeyAppTitle:         "Galeria de Imagens",
		KeyOpenFolder:       "Abrir Pasta",
		KeyRefresh:          "Atualizar",
		KeySettings:         "Configurações",
		KeyFile:             "Arquivo",
		KeyLanguage:         "Idioma",
		KeyGalleryDirectory: "Pasta da Galeria",
		KeyCellSize:         "Tamanho da Miniatura",
		KeyCellMargin:       "Margem da Célula",
		KeyRowPadding:       "Espaçamento de Linha",
		KeyPrefetchRows:     "Linhas Carregadas Antes",
		KeyMaxParallel:      "Máx. Carregamentos Paralelos",
		KeyThumbnailCache:   "Guardar miniaturas em disco",
		KeyRecursiveScan:    "Incluir subpastas",
		KeySave:             "Salvar",
		KeyCancel:           "Cancelar",
		KeyBrowse:           "Navegar",
		KeySettingsSaved:    "Configurações salvas com sucesso!",
		KeyRestartRequired:  "Paralelismo e cache valem após reiniciar.",
		KeyNoDirectory:      "Nenhuma pasta aberta",
		KeyScanning:         "Verificando %s...",
		KeyImageCount:       "%d imagens em %s",
		KeyLoadFailed:       "Falhou",
		KeyErrorOpeningFile: "Erro ao abrir arquivo",
		KeyGridSection:      "Grade",
		KeyInterfaceSection: "Interface",
	}
}

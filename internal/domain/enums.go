package domain

// Utility identifies the company a bill was issued by.
type Utility string

const (
	UtilityGeneric Utility = "generic"
	UtilitySDGE    Utility = "sdge"
	UtilityPGE     Utility = "pge"
	UtilitySCE     Utility = "sce"
)

// FileType represents the allowed file types for bill upload.
type FileType string

const (
	FileTypePDF FileType = "pdf"
)

// AllowedFileTypes maps FileType to its MIME content type.
var AllowedFileTypes = map[FileType]string{
	FileTypePDF: "application/pdf",
}

// AllowedContentTypes maps MIME content types back to FileType.
var AllowedContentTypes = map[string]FileType{
	"application/pdf": FileTypePDF,
}

// AllowedExtensions maps file extensions (without dot) to FileType.
var AllowedExtensions = map[string]FileType{
	"pdf": FileTypePDF,
}

// ExtractionStrategy selects which pipeline produces the bill record.
type ExtractionStrategy string

const (
	StrategyModel ExtractionStrategy = "model"
	StrategyRules ExtractionStrategy = "rules"
)

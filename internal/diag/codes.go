package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Синтаксис (tree-sitter)
	SynInfo       Code = 1000
	SynParseError Code = 1001
	SynMissing    Code = 1002

	// Аннотации
	AnnInfo                 Code = 2000
	AnnNodeFault            Code = 2001
	AnnHandwrittenType      Code = 2002
	AnnHandwrittenParamType Code = 2003
	AnnExportStarUnresolved Code = 2004
	AnnUnsupportedType      Code = 2005

	// Externs
	ExtInfo              Code = 3000
	ExtDuplicateCtor     Code = 3001
	ExtUnsupportedKind   Code = 3002
	ExtBlacklistedSymbol Code = 3003

	// goog.module
	ModInfo                Code = 4000
	ModNonLiteralRequire   Code = 4001
	ModUnresolvedSpecifier Code = 4002

	IOLoadFileError  Code = 5001
	IOWriteFileError Code = 5002
	IOCacheError     Code = 5003

	ProjInfo          Code = 6000
	ProjConfigInvalid Code = 6001

	ObsInfo    Code = 7000
	ObsTimings Code = 7001
)

var (
	codeDescription = map[Code]string{
		UnknownCode:             "Unknown error",
		SynInfo:                 "Syntax information",
		SynParseError:           "Syntax error",
		SynMissing:              "Missing syntax",
		AnnInfo:                 "Annotation information",
		AnnNodeFault:            "Construct could not be annotated",
		AnnHandwrittenType:      "Hand-written @type tag",
		AnnHandwrittenParamType: "Hand-written type on @param/@return",
		AnnExportStarUnresolved: "export * target not resolved",
		AnnUnsupportedType:      "Type rendered as unknown",
		ExtInfo:                 "Externs information",
		ExtDuplicateCtor:        "Multiple constructor signatures",
		ExtUnsupportedKind:      "Unsupported ambient declaration",
		ExtBlacklistedSymbol:    "Blacklisted externs symbol",
		ModInfo:                 "Module information",
		ModNonLiteralRequire:    "require() with non-literal argument",
		ModUnresolvedSpecifier:  "Module specifier not resolved",
		IOLoadFileError:         "I/O load file error",
		IOWriteFileError:        "I/O write file error",
		IOCacheError:            "Cache error",
		ProjInfo:                "Project information",
		ProjConfigInvalid:       "Invalid tsickle.toml",
		ObsInfo:                 "Observability information",
		ObsTimings:              "Pipeline timings",
	}
)

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("ANN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("EXT%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("MOD%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("PRJ%04d", ic)
	case ic >= 7000 && ic < 8000:
		return fmt.Sprintf("OBS%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}

package diag

import (
	"fmt"
)

type Code uint16

const (
	// Неизвестная ошибка
	UnknownCode Code = 0

	// Загрузка модуля
	LoadInfo            Code = 1000
	LoadReadFailed      Code = 1001
	LoadBadTOML         Code = 1002
	LoadBadType         Code = 1003
	LoadUnknownType     Code = 1004
	LoadBadOperand      Code = 1005
	LoadUnknownSymbol   Code = 1006
	LoadDuplicateName   Code = 1007
	LoadBadInstruction  Code = 1008
	LoadBadDataLayout   Code = 1009
	LoadStructRedefined Code = 1010

	// Раскладка типов
	LayoutInfo             Code = 2000
	LayoutRecursiveUnsized Code = 2001
	LayoutLengthOverflow   Code = 2002
	LayoutInvalidType      Code = 2003

	// Разрешение символов
	ResolveInfo              Code = 4000
	ResolvePrecisionLoss     Code = 4001
	ResolveUnsupportedSymbol Code = 4002
	ResolveInvalidIndex      Code = 4003
	ResolveInvariant         Code = 4004

	// Проект
	ProjInfo        Code = 5000
	ProjBadManifest Code = 5001

	// Наблюдаемость
	ObsInfo    Code = 6000
	ObsTimings Code = 6001
)

var (
	codeDescription = map[Code]string{
		UnknownCode:              "Unknown error",
		LoadInfo:                 "Module loading information",
		LoadReadFailed:           "Cannot read module file",
		LoadBadTOML:              "Malformed module document",
		LoadBadType:              "Malformed type expression",
		LoadUnknownType:          "Unknown named type",
		LoadBadOperand:           "Malformed operand",
		LoadUnknownSymbol:        "Reference to an undefined symbol",
		LoadDuplicateName:        "Duplicate definition",
		LoadBadInstruction:       "Malformed instruction",
		LoadBadDataLayout:        "Malformed target data layout",
		LoadStructRedefined:      "Named struct body defined twice",
		LayoutInfo:               "Layout information",
		LayoutRecursiveUnsized:   "Recursive value type has infinite size",
		LayoutLengthOverflow:     "Aggregate length does not fit the target",
		LayoutInvalidType:        "Type has no layout",
		ResolveInfo:              "Resolver information",
		ResolvePrecisionLoss:     "Integer constant narrowed to the native word",
		ResolveUnsupportedSymbol: "Symbol kind has no resolution rule",
		ResolveInvalidIndex:      "Element index is not a constant",
		ResolveInvariant:         "Resolver invariant violated",
		ProjInfo:                 "Project information",
		ProjBadManifest:          "Malformed project manifest",
		ObsInfo:                  "Observability information",
		ObsTimings:               "Pipeline timings",
	}
)

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LOD%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("LAY%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("RES%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("PRJ%04d", ic)
	case ic >= 6000 && ic < 7000:
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

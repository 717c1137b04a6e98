// Copyright 2024, The DXIL Inspect Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Package render turns a decoded bitstream.Node tree, together with the
// small fixed headers package dxbc extracts, into the same human-readable
// listing the original inspector tool produces: a shader-kind banner, the
// module's target triple/datalayout, its value symbol table, a best-effort
// metadata pretty-printer, and a full indented dump of the block tree.
package render

// KnownBlocks are the block ids meaningful at the top level of a module,
// named the way BitcodeAnalyzer.cpp's GetBlockName does.
const (
	BlockInfo           = 0
	ModuleBlock         = 8
	ParamAttrBlock      = 9
	ParamAttrGroupBlock = 10
	ConstantsBlock      = 11
	FunctionBlock       = 12
	TypeSymtabBlock     = 13
	ValueSymtabBlock    = 14
	MetadataBlock       = 15
	MetadataAttachment  = 16
	TypeBlock           = 17
)

var blockNames = map[uint32]string{
	BlockInfo:           "BLOCKINFO",
	ModuleBlock:         "MODULE_BLOCK",
	ParamAttrBlock:      "PARAMATTR_BLOCK",
	ParamAttrGroupBlock: "PARAMATTR_GROUP_BLOCK",
	ConstantsBlock:      "CONSTANTS_BLOCK",
	FunctionBlock:       "FUNCTION_BLOCK",
	TypeSymtabBlock:     "TYPE_SYMTAB_BLOCK",
	ValueSymtabBlock:    "VALUE_SYMTAB_BLOCK",
	MetadataBlock:       "METADATA_BLOCK",
	MetadataAttachment:  "METADATA_ATTACHMENT",
	TypeBlock:           "TYPE_BLOCK",
}

// ModuleRecord codes, valid when the parent block is ModuleBlock.
const (
	ModuleVersion    = 1
	ModuleTriple     = 2
	ModuleDatalayout = 3
	ModuleFunction   = 8
)

var moduleRecordNames = map[uint32]string{
	ModuleVersion:    "VERSION",
	ModuleTriple:     "TRIPLE",
	ModuleDatalayout: "DATALAYOUT",
	ModuleFunction:   "FUNCTION",
}

// ConstantsRecord codes, valid when the parent block is ConstantsBlock.
const (
	ConstSetType   = 1
	ConstNull      = 2
	ConstUndef     = 3
	ConstInteger   = 4
	ConstWideInt   = 5
	ConstFloat     = 6
	ConstAggregate = 7
	ConstString    = 8
	ConstData      = 22
)

var constantsRecordNames = map[uint32]string{
	ConstSetType:   "SETTYPE",
	ConstNull:      "NULL",
	ConstUndef:     "UNDEF",
	ConstInteger:   "INTEGER",
	ConstWideInt:   "WIDE_INTEGER",
	ConstFloat:     "FLOAT",
	ConstAggregate: "AGGREGATE",
	ConstString:    "STRING",
	ConstData:      "DATA",
}

// FunctionRecord codes, valid when the parent block is FunctionBlock. Named
// after LLVM's instruction-record encodings; this package never interprets
// their operands, only labels them.
const (
	FuncDeclareBlocks      = 1
	FuncInstBinop          = 2
	FuncInstCast           = 3
	FuncInstGepOld         = 4
	FuncInstSelect         = 5
	FuncInstExtractElt     = 6
	FuncInstInsertElt      = 7
	FuncInstShuffleVec     = 8
	FuncInstCmp            = 9
	FuncInstRet            = 10
	FuncInstBr             = 11
	FuncInstSwitch         = 12
	FuncInstInvoke         = 13
	FuncInstUnreachable    = 15
	FuncInstPhi            = 16
	FuncInstAlloca         = 19
	FuncInstLoad           = 20
	FuncInstVaarg          = 23
	FuncInstStoreOld       = 24
	FuncInstExtractVal     = 26
	FuncInstInsertVal      = 27
	FuncInstCmp2           = 28
	FuncInstVSelect        = 29
	FuncInstInboundsGepOld = 30
	FuncInstIndirectBr     = 31
	FuncDebugLocAgain      = 33
	FuncInstCall           = 34
	FuncDebugLoc           = 35
	FuncInstFence          = 36
	FuncInstCmpxchgOld     = 37
	FuncInstAtomicRMW      = 38
	FuncInstResume         = 39
	FuncInstLandingPadOld  = 40
	FuncInstLoadAtomic     = 41
	FuncInstStoreAtomicOld = 42
	FuncInstGep            = 43
	FuncInstStore          = 44
	FuncInstStoreAtomic    = 45
	FuncInstCmpxchg        = 46
	FuncInstLandingPad     = 47
	FuncInstCleanupRet     = 48
	FuncInstCatchRet       = 49
	FuncInstCatchPad       = 50
	FuncInstCleanupPad     = 51
	FuncInstCatchSwitch    = 52
	FuncOperandBundle      = 55
	FuncInstUnop           = 56
	FuncInstCallBr         = 57
)

var functionRecordNames = map[uint32]string{
	FuncDeclareBlocks:      "DECLAREBLOCKS",
	FuncInstBinop:          "INST_BINOP",
	FuncInstCast:           "INST_CAST",
	FuncInstGepOld:         "INST_GEP_OLD",
	FuncInstSelect:         "INST_SELECT",
	FuncInstExtractElt:     "INST_EXTRACTELT",
	FuncInstInsertElt:      "INST_INSERTELT",
	FuncInstShuffleVec:     "INST_SHUFFLEVEC",
	FuncInstCmp:            "INST_CMP",
	FuncInstRet:            "INST_RET",
	FuncInstBr:             "INST_BR",
	FuncInstSwitch:         "INST_SWITCH",
	FuncInstInvoke:         "INST_INVOKE",
	FuncInstUnreachable:    "INST_UNREACHABLE",
	FuncInstPhi:            "INST_PHI",
	FuncInstAlloca:         "INST_ALLOCA",
	FuncInstLoad:           "INST_LOAD",
	FuncInstVaarg:          "INST_VAARG",
	FuncInstStoreOld:       "INST_STORE_OLD",
	FuncInstExtractVal:     "INST_EXTRACTVAL",
	FuncInstInsertVal:      "INST_INSERTVAL",
	FuncInstCmp2:           "INST_CMP2",
	FuncInstVSelect:        "INST_VSELECT",
	FuncInstInboundsGepOld: "INST_INBOUNDS_GEP_OLD",
	FuncInstIndirectBr:     "INST_INDIRECTBR",
	FuncDebugLocAgain:      "DEBUG_LOC_AGAIN",
	FuncInstCall:           "INST_CALL",
	FuncDebugLoc:           "DEBUG_LOC",
	FuncInstFence:          "INST_FENCE",
	FuncInstCmpxchgOld:     "INST_CMPXCHG_OLD",
	FuncInstAtomicRMW:      "INST_ATOMICRMW",
	FuncInstResume:         "INST_RESUME",
	FuncInstLandingPadOld:  "INST_LANDINGPAD_OLD",
	FuncInstLoadAtomic:     "INST_LOADATOMIC",
	FuncInstStoreAtomicOld: "INST_STOREATOMIC_OLD",
	FuncInstGep:            "INST_GEP",
	FuncInstStore:          "INST_STORE",
	FuncInstStoreAtomic:    "INST_STOREATOMIC",
	FuncInstCmpxchg:        "INST_CMPXCHG",
	FuncInstLandingPad:     "INST_LANDINGPAD",
	FuncInstCleanupRet:     "INST_CLEANUPRET",
	FuncInstCatchRet:       "INST_CATCHRET",
	FuncInstCatchPad:       "INST_CATCHPAD",
	FuncInstCleanupPad:     "INST_CLEANUPPAD",
	FuncInstCatchSwitch:    "INST_CATCHSWITCH",
	FuncOperandBundle:      "OPERAND_BUNDLE",
	FuncInstUnop:           "INST_UNOP",
	FuncInstCallBr:         "INST_CALLBR",
}

// ValueSymtabRecord codes, valid when the parent block is ValueSymtabBlock
// or a function's nested value symbol table.
const (
	SymtabEntry         = 1
	SymtabBBEntry       = 2
	SymtabFnEntry       = 3
	SymtabCombinedEntry = 5
)

var valueSymtabRecordNames = map[uint32]string{
	SymtabEntry:         "ENTRY",
	SymtabBBEntry:       "BBENTRY",
	SymtabFnEntry:       "FNENTRY",
	SymtabCombinedEntry: "COMBINED_ENTRY",
}

// MetaDataRecord codes, valid when the parent block is MetadataBlock.
const (
	MetaStringOld            = 1
	MetaValue                = 2
	MetaNode                 = 3
	MetaName                 = 4
	MetaDistinctNode          = 5
	MetaKind                  = 6
	MetaLocation              = 7
	MetaOldNode               = 8
	MetaOldFnNode             = 9
	MetaNamedNode             = 10
	MetaAttachment            = 11
	MetaGenericDebug          = 12
	MetaSubrange              = 13
	MetaEnumerator            = 14
	MetaBasicType             = 15
	MetaFile                  = 16
	MetaDerivedType           = 17
	MetaCompositeType         = 18
	MetaSubroutineType        = 19
	MetaCompileUnit           = 20
	MetaSubprogram            = 21
	MetaLexicalBlock          = 22
	MetaLexicalBlockFile      = 23
	MetaNamespace             = 24
	MetaTemplateType          = 25
	MetaTemplateValue         = 26
	MetaGlobalVar             = 27
	MetaLocalVar              = 28
	MetaExpression            = 29
	MetaObjCProperty          = 30
	MetaImportedEntity        = 31
	MetaModule                = 32
	MetaMacro                 = 33
	MetaMacroFile             = 34
	MetaStrings               = 35
	MetaGlobalDeclAttachment  = 36
	MetaGlobalVarExpr         = 37
	MetaIndexOffset           = 38
	MetaIndex                 = 39
	MetaLabel                 = 40
	MetaCommonBlock           = 44
)

var metaDataRecordNames = map[uint32]string{
	MetaStringOld:           "STRING_OLD",
	MetaValue:               "VALUE",
	MetaNode:                "NODE",
	MetaName:                "NAME",
	MetaDistinctNode:        "DISTINCT_NODE",
	MetaKind:                "KIND",
	MetaLocation:            "LOCATION",
	MetaOldNode:             "OLD_NODE",
	MetaOldFnNode:           "OLD_FN_NODE",
	MetaNamedNode:           "NAMED_NODE",
	MetaAttachment:          "ATTACHMENT",
	MetaGenericDebug:        "GENERIC_DEBUG",
	MetaSubrange:            "SUBRANGE",
	MetaEnumerator:          "ENUMERATOR",
	MetaBasicType:           "BASIC_TYPE",
	MetaFile:                "FILE",
	MetaDerivedType:         "DERIVED_TYPE",
	MetaCompositeType:       "COMPOSITE_TYPE",
	MetaSubroutineType:      "SUBROUTINE_TYPE",
	MetaCompileUnit:         "COMPILE_UNIT",
	MetaSubprogram:          "SUBPROGRAM",
	MetaLexicalBlock:        "LEXICAL_BLOCK",
	MetaLexicalBlockFile:    "LEXICAL_BLOCK_FILE",
	MetaNamespace:           "NAMESPACE",
	MetaTemplateType:        "TEMPLATE_TYPE",
	MetaTemplateValue:       "TEMPLATE_VALUE",
	MetaGlobalVar:           "GLOBAL_VAR",
	MetaLocalVar:            "LOCAL_VAR",
	MetaExpression:          "EXPRESSION",
	MetaObjCProperty:        "OBJC_PROPERTY",
	MetaImportedEntity:      "IMPORTED_ENTITY",
	MetaModule:              "MODULE",
	MetaMacro:               "MACRO",
	MetaMacroFile:           "MACRO_FILE",
	MetaStrings:             "STRINGS",
	MetaGlobalDeclAttachment: "GLOBAL_DECL_ATTACHMENT",
	MetaGlobalVarExpr:       "GLOBAL_VAR_EXPR",
	MetaIndexOffset:         "INDEX_OFFSET",
	MetaIndex:               "INDEX",
	MetaLabel:               "LABEL",
	MetaCommonBlock:         "COMMON_BLOCK",
}

// TypeRecord codes, valid when the parent block is TypeBlock.
const (
	TypeNumEntry     = 1
	TypeVoid         = 2
	TypeFloat        = 3
	TypeDouble       = 4
	TypeLabel        = 5
	TypeOpaque       = 6
	TypeInteger      = 7
	TypePointer      = 8
	TypeFunctionOld  = 9
	TypeHalf         = 10
	TypeArray        = 11
	TypeVector       = 12
	TypeMetadata     = 16
	TypeStructAnon   = 18
	TypeStructName   = 19
	TypeStructNamed  = 20
	TypeFunction     = 21
	TypeToken        = 22
)

var typeRecordNames = map[uint32]string{
	TypeNumEntry:    "NUMENTRY",
	TypeVoid:        "VOID",
	TypeFloat:       "FLOAT",
	TypeDouble:      "DOUBLE",
	TypeLabel:       "LABEL",
	TypeOpaque:      "OPAQUE",
	TypeInteger:     "INTEGER",
	TypePointer:     "POINTER",
	TypeFunctionOld: "FUNCTION_OLD",
	TypeHalf:        "HALF",
	TypeArray:       "ARRAY",
	TypeVector:      "VECTOR",
	TypeMetadata:    "METADATA",
	TypeStructAnon:  "STRUCT_ANON",
	TypeStructName:  "STRUCT_NAME",
	TypeStructNamed: "STRUCT_NAMED",
	TypeFunction:    "FUNCTION",
	TypeToken:       "TOKEN",
}

// recordTables maps a parent block id to that block's record-name table,
// mirroring GetCodeName's outer switch on the parent block.
var recordTables = map[uint32]map[uint32]string{
	ModuleBlock:         moduleRecordNames,
	ParamAttrBlock:      {},
	ParamAttrGroupBlock: {},
	ConstantsBlock:      constantsRecordNames,
	FunctionBlock:       functionRecordNames,
	ValueSymtabBlock:    valueSymtabRecordNames,
	MetadataBlock:       metaDataRecordNames,
	TypeBlock:           typeRecordNames,
}

// BlockName returns the known name for a block id, or "" if unrecognized.
func BlockName(id uint32) string { return blockNames[id] }

// RecordName returns the known name for a record id given its parent block
// id, or "" if unrecognized. PARAMATTR_BLOCK and PARAMATTR_GROUP_BLOCK both
// name every record "ENTRY" regardless of code.
func RecordName(parentBlock, id uint32) string {
	if parentBlock == ParamAttrBlock || parentBlock == ParamAttrGroupBlock {
		return "ENTRY"
	}
	return recordTables[parentBlock][id]
}

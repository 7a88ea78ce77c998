package lower

import (
	"fmt"
	"strconv"

	"thea/names"
	"thea/pyast"
	"thea/thir"
)

// Options carries the configuration the lowering engine consults.  It is
// resolved once per run and passed in; the translator reads no global state.
type Options struct {
	// IgnoreAssert lowers assert statements to no-ops
	IgnoreAssert bool
}

// Translator lowers one parsed Python file into a ThIR statement.  A
// translator is single-use state: the only thing it carries across nodes is
// the monotonic counter minting fresh temporaries, which restarts at zero for
// every new translator so two lowerings of the same tree are structurally
// identical.
type Translator struct {
	// fileID identifies the source buffer in emitted source references
	fileID string

	// qualPath is the dotted module path of the file being lowered; relative
	// imports are resolved against it
	qualPath string

	opt Options

	// immCount backs freshName
	immCount int
}

// NewTranslator creates a translator for a single file
func NewTranslator(fileID, qualPath string, opt Options) *Translator {
	return &Translator{
		fileID:   fileID,
		qualPath: qualPath,
		opt:      opt,
	}
}

// LowerModule lowers a parsed module into the canonical module form:
// `Let("$module", stmts ; exports, Object())`.  The export pass publishes
// every module-local name onto `$module` except imported single names,
// dunders, and the LibCall pseudo-module.
func (t *Translator) LowerModule(mod *pyast.Module) (thir.ThStmt, error) {
	body, err := t.lowerSuite(mod.Body)
	if err != nil {
		return nil, err
	}

	localDefs := names.ExtractLocalDef(mod.Body, nil)

	exports := make(names.StringSet)
	imported := names.ExtractSingleImport(mod.Body)
	for name := range localDefs {
		if imported.Has(name) || name == "LibCall" || len(name) >= 2 && name[:2] == "__" {
			continue
		}
		exports.Add(name)
	}

	exportStmt := thir.ThStmt(thir.NewPass(nil))
	exportNames := exports.Sorted()
	for i := len(exportNames) - 1; i >= 0; i-- {
		name := exportNames[i]
		call := thir.NewLibCall(thir.LCExportGlobal, []thir.LibCallParam{
			{Key: "$module", Value: thir.NewName("$module", nil)},
			{Key: name, Value: thir.NewName(name, nil)},
		}, nil)

		if i == len(exportNames)-1 {
			exportStmt = thir.NewExprStmt(call, nil)
		} else {
			exportStmt = thir.NewSeq(thir.NewExprStmt(call, nil), exportStmt, nil)
		}
	}

	moduleBody := t.wrapLocalLets(localDefs, thir.NewSeq(body, exportStmt, nil))
	return thir.NewLet("$module", moduleBody, thir.NewObject(nil), t.ref(mod)), nil
}

// wrapLocalLets introduces every block-local name around a lowered body.
// Assignment never declares, so each local is declared here, uninitialized.
func (t *Translator) wrapLocalLets(locals names.StringSet, body thir.ThStmt) thir.ThStmt {
	sorted := locals.Sorted()
	for i := len(sorted) - 1; i >= 0; i-- {
		body = thir.NewLet(sorted[i], body, nil, nil)
	}
	return body
}

// freshName mints a new synthetic temporary.  User code must not contain
// `$`-prefixed identifiers; the host parser rejects them.
func (t *Translator) freshName() string {
	t.immCount++
	return "$Imm" + strconv.Itoa(t.immCount)
}

// ref copies a node's position into a source reference.  Positions are taken
// by value so lowered trees never pin the input AST.
func (t *Translator) ref(node pyast.Node) *thir.SourceRef {
	pos := node.Pos()
	return &thir.SourceRef{FileID: t.fileID, Start: pos.Start, Length: pos.Length}
}

// -----------------------------------------------------------------------------

// Error is a lowering failure attached to the offending source range.  The
// file it came from is fatal for collection purposes; other files continue.
type Error struct {
	Message string
	Ref     *thir.SourceRef
}

func (e *Error) Error() string {
	return e.Message
}

// errorf builds a lowering error pointing at `node`
func (t *Translator) errorf(node pyast.Node, format string, args ...interface{}) error {
	return &Error{Message: fmt.Sprintf(format, args...), Ref: t.ref(node)}
}

// unsupportedError marks a recognized construct the frontend does not model.
// Statement lowering converts it to a plain Pass; it never escapes the
// translator.
type unsupportedError struct {
	ref *thir.SourceRef
}

func (e *unsupportedError) Error() string {
	return "unsupported construct"
}

func (t *Translator) unsupported(node pyast.Node) error {
	return &unsupportedError{ref: t.ref(node)}
}

// passIfUnsupported converts an unsupported-construct failure into a Pass
// carrying the original source reference; real errors pass through
func passIfUnsupported(stmt thir.ThStmt, err error) (thir.ThStmt, error) {
	if ue, ok := err.(*unsupportedError); ok {
		return thir.NewPass(ue.ref), nil
	}
	return stmt, err
}

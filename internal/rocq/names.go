package rocq

// reservedWords is Rocq/Coq's reserved-word set as it matters to
// identifiers this emitter synthesizes (function names, local-name
// comments): core vernacular keywords, the handful of tactic keywords
// Wasm-in-Coq's own preamble reserves, and sort names that collide
// with common short function names.
var reservedWords = map[string]bool{
	"Definition": true, "Theorem": true, "Fixpoint": true, "Lemma": true,
	"match": true, "with": true, "end": true, "Type": true, "Prop": true,
	"Set": true, "fun": true, "let": true, "in": true, "if": true,
	"then": true, "else": true, "forall": true, "exists": true,
	"Inductive": true, "Record": true, "Module": true, "Import": true,
	"apply": true, "exact": true, "auto": true, "simpl": true, "unfold": true,
}

// sanitizeName rewrites name to avoid colliding with a Rocq reserved
// word by appending "_". Names that are not reserved pass through
// unchanged.
func sanitizeName(name string) string {
	if reservedWords[name] {
		return name + "_"
	}
	return name
}

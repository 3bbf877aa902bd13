package entity

// TokenPair par de tokens emitido por token/ y token/refresh/.
// Se persiste completo, serializado como {"access": ..., "refresh": ...}.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// Valid indica si el par tiene al menos un access token utilizable.
func (t *TokenPair) Valid() bool {
	return t != nil && t.Access != ""
}

package errors

import "fmt"

// ConfigMissingError indica que falta un valor requerido de configuración.
// Es fatal y aborta antes de cualquier llamada de red.
type ConfigMissingError struct {
	Key string
}

func (e *ConfigMissingError) Error() string {
	return fmt.Sprintf("config error: required value %q is not set", e.Key)
}

// NewConfigMissingError crea un nuevo error de configuración faltante
func NewConfigMissingError(key string) *ConfigMissingError {
	return &ConfigMissingError{Key: key}
}

// TemplateNotFoundError indica que no existe el template para la clave (scope, version).
// Sin template no hay prompt posible, así que es fatal para la corrida.
type TemplateNotFoundError struct {
	Scope   string
	Version string
	Path    string
}

func (e *TemplateNotFoundError) Error() string {
	return fmt.Sprintf("template not found for scope %q version %q (looked in %s)", e.Scope, e.Version, e.Path)
}

// NewTemplateNotFoundError crea un nuevo error de template no encontrado
func NewTemplateNotFoundError(scope, version, path string) *TemplateNotFoundError {
	return &TemplateNotFoundError{Scope: scope, Version: version, Path: path}
}

// TemplateMalformedError indica que el template referencia un placeholder fuera
// del conjunto fijo o está sintácticamente roto.
type TemplateMalformedError struct {
	Scope string
	Err   error
}

func (e *TemplateMalformedError) Error() string {
	return fmt.Sprintf("template %q is malformed: %v", e.Scope, e.Err)
}

func (e *TemplateMalformedError) Unwrap() error {
	return e.Err
}

// NewTemplateMalformedError crea un nuevo error de template malformado
func NewTemplateMalformedError(scope string, err error) *TemplateMalformedError {
	return &TemplateMalformedError{Scope: scope, Err: err}
}

// BudgetExceededError indica que la llamada pendiente no entra en el presupuesto
// de tokens. Es un resultado esperado y visible para el usuario, no una falla fatal.
type BudgetExceededError struct {
	Limit     int
	Consumed  int
	Estimated int
}

func (e *BudgetExceededError) Error() string {
	return fmt.Sprintf("token budget exceeded: consumed %d + estimated %d > limit %d", e.Consumed, e.Estimated, e.Limit)
}

// NewBudgetExceededError crea un nuevo error de presupuesto excedido
func NewBudgetExceededError(limit, consumed, estimated int) *BudgetExceededError {
	return &BudgetExceededError{Limit: limit, Consumed: consumed, Estimated: estimated}
}

// ProviderError envuelve una falla de red/auth/API de un colaborador externo.
type ProviderError struct {
	Provider string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider %q error: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// NewProviderError crea un nuevo error de proveedor
func NewProviderError(provider string, err error) *ProviderError {
	return &ProviderError{Provider: provider, Err: err}
}

package application

import "errors"

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrEntryNotFound     = errors.New("entry not found")
	ErrExportUnavailable = errors.New("statement export not configured")
)

// errEntryNotPersisted is the panic value for update/delete on an entry without identity.
var errEntryNotPersisted = errors.New("entry has no id: persist it before updating or deleting")

const (
	msgUserNotExists   = "Usuário não Existe!"
	msgInvalidPassword = "Senha Inválida"
	msgEmailTaken      = "Já existe um usuário cadastrado com este email"
)

// AuthenticationError reports bad credentials.
type AuthenticationError struct {
	Message string
}

func (e *AuthenticationError) Error() string { return e.Message }

// Violation tags the business rule an operation broke.
type Violation int

const (
	ViolationNone Violation = iota
	ViolationEmailTaken
	ViolationDescription
	ViolationMonth
	ViolationYear
	ViolationUser
	ViolationAmount
	ViolationType
	ViolationStatus
	ViolationPassword
)

var violationMessages = map[Violation]string{
	ViolationEmailTaken:  msgEmailTaken,
	ViolationDescription: "Informe uma Descrição válida.",
	ViolationMonth:       "Informe um Mês válido.",
	ViolationYear:        "Informe um Ano válido.",
	ViolationUser:        "Informe um Usuário.",
	ViolationAmount:      "Informe um Valor válido.",
	ViolationType:        "Informe um tipo de Lançamento.",
	ViolationStatus:      "Informe um status válido.",
	ViolationPassword:    "Informe uma Senha válida.",
}

func (v Violation) Message() string {
	return violationMessages[v]
}

// BusinessRuleError reports a domain rule violation. Message is user facing.
type BusinessRuleError struct {
	Violation Violation
	Message   string
}

func (e *BusinessRuleError) Error() string { return e.Message }

func ruleError(v Violation) *BusinessRuleError {
	return &BusinessRuleError{Violation: v, Message: v.Message()}
}

// ViolationOf returns the violation carried by err, or ViolationNone.
func ViolationOf(err error) Violation {
	var be *BusinessRuleError
	if errors.As(err, &be) {
		return be.Violation
	}
	return ViolationNone
}

package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/DanielCC02/Acedema-Back/internal/crypto"
	"github.com/DanielCC02/Acedema-Back/internal/model"
)

const (
	// RolPorDefecto is assigned when a registration carries no role.
	RolPorDefecto   = "Usuario"
	RolPorDefectoID = 1

	// MinContrasena is the minimum accepted password length.
	MinContrasena = 8
)

const (
	MsgCredencialesInvalidas = "Correo o contraseña incorrectos."
	MsgPersonaNoEncontrada   = "Persona no encontrada."
	MsgCorreoDuplicado       = "El correo ya está registrado."
	MsgContrasenaActual      = "La contraseña actual no es correcta."
	MsgContrasenaCorta       = "La contraseña debe tener al menos 8 caracteres."
)

type PersonaStore interface {
	PersonaPorID(ctx context.Context, id string) (model.Persona, error)
	PersonaPorCorreo(ctx context.Context, correo string) (model.Persona, error)
	CrearPersona(ctx context.Context, persona model.Persona) error
	ExisteCorreo(ctx context.Context, correo string) (bool, error)
	ActualizarContrasena(ctx context.Context, correo, contrasenaHash string) (bool, error)
}

type PersonaService struct {
	store PersonaStore
}

func NewPersonaService(store PersonaStore) *PersonaService {
	return &PersonaService{store: store}
}

func (s *PersonaService) ObtenerPersona(ctx context.Context, id string) Result[model.Persona] {
	if strings.TrimSpace(id) == "" {
		return fail[model.Persona]("El identificador de la persona es requerido.")
	}

	persona, err := s.store.PersonaPorID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fail[model.Persona](MsgPersonaNoEncontrada)
		}
		return fail[model.Persona]("Error al consultar la persona.")
	}
	return ok(conRolPorDefecto(persona))
}

type RegistroPersona struct {
	Nombre          string
	SegundoNombre   *string
	PrimerApellido  string
	SegundoApellido *string
	Correo          string
	Contrasena      string
	RolID           int
	NombreRol       string
	Cargo           *string
}

// RegistrarPersona creates the account and returns the generated id. The
// password is expected to be a temporary one picked by the registrar; the
// owner changes it afterwards through actualizarContrasena.
func (s *PersonaService) RegistrarPersona(ctx context.Context, req RegistroPersona) Result[string] {
	var errores []string
	req.Correo = strings.TrimSpace(strings.ToLower(req.Correo))
	req.Nombre = strings.TrimSpace(req.Nombre)
	req.PrimerApellido = strings.TrimSpace(req.PrimerApellido)

	if req.Nombre == "" {
		errores = append(errores, "El nombre es requerido.")
	}
	if req.PrimerApellido == "" {
		errores = append(errores, "El primer apellido es requerido.")
	}
	if req.Correo == "" {
		errores = append(errores, "El correo es requerido.")
	}
	if len(req.Contrasena) < MinContrasena {
		errores = append(errores, MsgContrasenaCorta)
	}
	if len(errores) > 0 {
		return fail[string](errores...)
	}

	existe, err := s.store.ExisteCorreo(ctx, req.Correo)
	if err != nil {
		return fail[string]("Error al verificar el correo.")
	}
	if existe {
		return fail[string](MsgCorreoDuplicado)
	}

	hash, err := crypto.HashPassword(req.Contrasena)
	if err != nil {
		return fail[string]("Error al procesar la contraseña.")
	}

	if req.NombreRol == "" {
		req.NombreRol = RolPorDefecto
		req.RolID = RolPorDefectoID
	}

	now := time.Now().UTC()
	persona := model.Persona{
		ID:              uuid.NewString(),
		Nombre:          req.Nombre,
		SegundoNombre:   req.SegundoNombre,
		PrimerApellido:  req.PrimerApellido,
		SegundoApellido: req.SegundoApellido,
		Correo:          req.Correo,
		ContrasenaHash:  hash,
		RolID:           req.RolID,
		NombreRol:       req.NombreRol,
		Cargo:           req.Cargo,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.store.CrearPersona(ctx, persona); err != nil {
		return fail[string]("Error al registrar la persona.")
	}
	return ok(persona.ID)
}

// ValidarLogin checks the credentials against the stored hash. Unknown email
// and wrong password produce the same message so callers cannot enumerate
// accounts.
func (s *PersonaService) ValidarLogin(ctx context.Context, correo, contrasena string) Result[model.Persona] {
	correo = strings.TrimSpace(strings.ToLower(correo))

	persona, err := s.store.PersonaPorCorreo(ctx, correo)
	if err != nil {
		return fail[model.Persona](MsgCredencialesInvalidas)
	}
	if err := crypto.CheckPassword(persona.ContrasenaHash, contrasena); err != nil {
		return fail[model.Persona](MsgCredencialesInvalidas)
	}
	return ok(conRolPorDefecto(persona))
}

// ExistePersonaPorCorreo distinguishes a failed query (Resultado=false) from
// a successful query with no match (Resultado=true, Valor=false).
func (s *PersonaService) ExistePersonaPorCorreo(ctx context.Context, correo string) Result[bool] {
	existe, err := s.store.ExisteCorreo(ctx, strings.TrimSpace(strings.ToLower(correo)))
	if err != nil {
		return fail[bool]("Error al verificar el correo.")
	}
	return ok(existe)
}

// ActualizarContrasena verifies the current (or temporary) password itself
// before storing the new hash; callers perform no such check.
func (s *PersonaService) ActualizarContrasena(ctx context.Context, correo, actual, nueva string) Result[struct{}] {
	correo = strings.TrimSpace(strings.ToLower(correo))
	if len(nueva) < MinContrasena {
		return fail[struct{}](MsgContrasenaCorta)
	}

	persona, err := s.store.PersonaPorCorreo(ctx, correo)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fail[struct{}](MsgPersonaNoEncontrada)
		}
		return fail[struct{}]("Error al consultar la persona.")
	}
	if err := crypto.CheckPassword(persona.ContrasenaHash, actual); err != nil {
		return fail[struct{}](MsgContrasenaActual)
	}

	hash, err := crypto.HashPassword(nueva)
	if err != nil {
		return fail[struct{}]("Error al procesar la contraseña.")
	}
	updated, err := s.store.ActualizarContrasena(ctx, correo, hash)
	if err != nil {
		return fail[struct{}]("Error al actualizar la contraseña.")
	}
	if !updated {
		return fail[struct{}](MsgPersonaNoEncontrada)
	}
	return ok(struct{}{})
}

// ActualizarContrasenaPorCorreo overwrites the password keyed by email with
// no further checks. Only the recovery flow calls it, after the reset token
// proved ownership of the address.
func (s *PersonaService) ActualizarContrasenaPorCorreo(ctx context.Context, correo, nueva string) Result[struct{}] {
	correo = strings.TrimSpace(strings.ToLower(correo))

	hash, err := crypto.HashPassword(nueva)
	if err != nil {
		return fail[struct{}]("Error al procesar la contraseña.")
	}
	updated, err := s.store.ActualizarContrasena(ctx, correo, hash)
	if err != nil {
		return fail[struct{}]("Error al actualizar la contraseña.")
	}
	if !updated {
		return fail[struct{}](MsgPersonaNoEncontrada)
	}
	return ok(struct{}{})
}

func conRolPorDefecto(persona model.Persona) model.Persona {
	if persona.NombreRol == "" {
		persona.NombreRol = RolPorDefecto
	}
	return persona
}

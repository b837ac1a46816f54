package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/DanielCC02/Acedema-Back/internal/model"
)

type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func (s *Store) PersonaPorID(ctx context.Context, id string) (model.Persona, error) {
	var persona model.Persona
	row := s.pool.QueryRow(ctx, `
		SELECT id, nombre, segundo_nombre, primer_apellido, segundo_apellido,
		       correo, contrasena_hash, rol_id, nombre_rol, cargo, created_at, updated_at
		FROM personas
		WHERE id = $1
	`, id)
	err := row.Scan(
		&persona.ID,
		&persona.Nombre,
		&persona.SegundoNombre,
		&persona.PrimerApellido,
		&persona.SegundoApellido,
		&persona.Correo,
		&persona.ContrasenaHash,
		&persona.RolID,
		&persona.NombreRol,
		&persona.Cargo,
		&persona.CreatedAt,
		&persona.UpdatedAt,
	)
	return persona, err
}

func (s *Store) PersonaPorCorreo(ctx context.Context, correo string) (model.Persona, error) {
	var persona model.Persona
	row := s.pool.QueryRow(ctx, `
		SELECT id, nombre, segundo_nombre, primer_apellido, segundo_apellido,
		       correo, contrasena_hash, rol_id, nombre_rol, cargo, created_at, updated_at
		FROM personas
		WHERE lower(correo) = lower($1)
	`, correo)
	err := row.Scan(
		&persona.ID,
		&persona.Nombre,
		&persona.SegundoNombre,
		&persona.PrimerApellido,
		&persona.SegundoApellido,
		&persona.Correo,
		&persona.ContrasenaHash,
		&persona.RolID,
		&persona.NombreRol,
		&persona.Cargo,
		&persona.CreatedAt,
		&persona.UpdatedAt,
	)
	return persona, err
}

func (s *Store) CrearPersona(ctx context.Context, persona model.Persona) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO personas (id, nombre, segundo_nombre, primer_apellido, segundo_apellido,
		                      correo, contrasena_hash, rol_id, nombre_rol, cargo, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, lower($6), $7, $8, $9, $10, $11, $12)
	`,
		persona.ID,
		persona.Nombre,
		persona.SegundoNombre,
		persona.PrimerApellido,
		persona.SegundoApellido,
		persona.Correo,
		persona.ContrasenaHash,
		persona.RolID,
		persona.NombreRol,
		persona.Cargo,
		persona.CreatedAt,
		persona.UpdatedAt,
	)
	return err
}

func (s *Store) ExisteCorreo(ctx context.Context, correo string) (bool, error) {
	var existe bool
	err := s.pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM personas WHERE lower(correo) = lower($1))
	`, correo).Scan(&existe)
	return existe, err
}

// ActualizarContrasena overwrites the stored hash keyed by email and reports
// whether a row was touched.
func (s *Store) ActualizarContrasena(ctx context.Context, correo, contrasenaHash string) (bool, error) {
	tag, err := s.pool.Exec(ctx, `
		UPDATE personas
		SET contrasena_hash = $1, updated_at = now()
		WHERE lower(correo) = lower($2)
	`, contrasenaHash, correo)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (s *Store) MatriculaPorPersona(ctx context.Context, personaID string) (model.Matricula, error) {
	var matricula model.Matricula
	row := s.pool.QueryRow(ctx, `
		SELECT id, persona_id, periodo, grado, estado, fecha_matricula
		FROM matriculas
		WHERE persona_id = $1
		ORDER BY fecha_matricula DESC
		LIMIT 1
	`, personaID)
	err := row.Scan(
		&matricula.ID,
		&matricula.PersonaID,
		&matricula.Periodo,
		&matricula.Grado,
		&matricula.Estado,
		&matricula.FechaMatricula,
	)
	return matricula, err
}

func (s *Store) MatriculaPorPersonaYPeriodo(ctx context.Context, personaID, periodo string) (model.Matricula, error) {
	var matricula model.Matricula
	row := s.pool.QueryRow(ctx, `
		SELECT id, persona_id, periodo, grado, estado, fecha_matricula
		FROM matriculas
		WHERE persona_id = $1 AND periodo = $2
	`, personaID, periodo)
	err := row.Scan(
		&matricula.ID,
		&matricula.PersonaID,
		&matricula.Periodo,
		&matricula.Grado,
		&matricula.Estado,
		&matricula.FechaMatricula,
	)
	return matricula, err
}

func (s *Store) CrearMatricula(ctx context.Context, matricula model.Matricula) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO matriculas (id, persona_id, periodo, grado, estado, fecha_matricula)
		VALUES ($1, $2, $3, $4, $5, $6)
	`,
		matricula.ID,
		matricula.PersonaID,
		matricula.Periodo,
		matricula.Grado,
		matricula.Estado,
		matricula.FechaMatricula,
	)
	return err
}

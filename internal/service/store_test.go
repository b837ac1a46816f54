package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/DanielCC02/Acedema-Back/internal/model"
)

var errStoreDown = errors.New("store down")

// memStore implements PersonaStore and MatriculaStore in memory for tests.
type memStore struct {
	personas   map[string]model.Persona
	matriculas []model.Matricula

	failCorreo    bool
	failPersonas  bool
	failMatricula bool
}

func newMemStore() *memStore {
	return &memStore{personas: map[string]model.Persona{}}
}

func (m *memStore) PersonaPorID(_ context.Context, id string) (model.Persona, error) {
	if m.failPersonas {
		return model.Persona{}, errStoreDown
	}
	persona, found := m.personas[id]
	if !found {
		return model.Persona{}, pgx.ErrNoRows
	}
	return persona, nil
}

func (m *memStore) PersonaPorCorreo(_ context.Context, correo string) (model.Persona, error) {
	if m.failPersonas {
		return model.Persona{}, errStoreDown
	}
	for _, persona := range m.personas {
		if strings.EqualFold(persona.Correo, correo) {
			return persona, nil
		}
	}
	return model.Persona{}, pgx.ErrNoRows
}

func (m *memStore) CrearPersona(_ context.Context, persona model.Persona) error {
	if m.failPersonas {
		return errStoreDown
	}
	m.personas[persona.ID] = persona
	return nil
}

func (m *memStore) ExisteCorreo(_ context.Context, correo string) (bool, error) {
	if m.failCorreo {
		return false, errStoreDown
	}
	for _, persona := range m.personas {
		if strings.EqualFold(persona.Correo, correo) {
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) ActualizarContrasena(_ context.Context, correo, contrasenaHash string) (bool, error) {
	if m.failPersonas {
		return false, errStoreDown
	}
	for id, persona := range m.personas {
		if strings.EqualFold(persona.Correo, correo) {
			persona.ContrasenaHash = contrasenaHash
			m.personas[id] = persona
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) MatriculaPorPersona(_ context.Context, personaID string) (model.Matricula, error) {
	if m.failMatricula {
		return model.Matricula{}, errStoreDown
	}
	for i := len(m.matriculas) - 1; i >= 0; i-- {
		if m.matriculas[i].PersonaID == personaID {
			return m.matriculas[i], nil
		}
	}
	return model.Matricula{}, pgx.ErrNoRows
}

func (m *memStore) MatriculaPorPersonaYPeriodo(_ context.Context, personaID, periodo string) (model.Matricula, error) {
	if m.failMatricula {
		return model.Matricula{}, errStoreDown
	}
	for _, matricula := range m.matriculas {
		if matricula.PersonaID == personaID && matricula.Periodo == periodo {
			return matricula, nil
		}
	}
	return model.Matricula{}, pgx.ErrNoRows
}

func (m *memStore) CrearMatricula(_ context.Context, matricula model.Matricula) error {
	if m.failMatricula {
		return errStoreDown
	}
	m.matriculas = append(m.matriculas, matricula)
	return nil
}

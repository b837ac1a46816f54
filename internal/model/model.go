package model

import "time"

type Persona struct {
	ID              string
	Nombre          string
	SegundoNombre   *string
	PrimerApellido  string
	SegundoApellido *string
	Correo          string
	ContrasenaHash  string
	RolID           int
	NombreRol       string
	Cargo           *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type Matricula struct {
	ID             string
	PersonaID      string
	Periodo        string
	Grado          string
	Estado         string
	FechaMatricula time.Time
}

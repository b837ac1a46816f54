package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/DanielCC02/Acedema-Back/internal/auth"
	"github.com/DanielCC02/Acedema-Back/internal/config"
	"github.com/DanielCC02/Acedema-Back/internal/model"
	"github.com/DanielCC02/Acedema-Back/internal/ratelimit"
	"github.com/DanielCC02/Acedema-Back/internal/service"
)

const (
	msgSolicitudNula         = "La solicitud no puede ser nula."
	msgCorreoRequerido       = "El correo es requerido."
	msgCorreoNoRegistrado    = "Correo no registrado."
	msgCredencialesFaltantes = "El correo y la contraseña son requeridos."
	msgTokenYContrasena      = "El token y la nueva contraseña son requeridos."
	msgTokenSinCorreo        = "El token no contiene un correo válido."
	msgTokenNoRecuperacion   = "El token no es un token de recuperación."
	msgTokenInvalido         = "Token inválido."
	msgErrorVerificarCorreo  = "Error al verificar el correo."
	msgEnvioCorreoFallido    = "No se pudo enviar el correo de recuperación."
	msgCorreoEnviado         = "Se ha enviado un correo de recuperación a la dirección indicada."
	msgContrasenaActualizada = "Contraseña actualizada correctamente."
	msgDemasiadasSolicitudes = "Demasiadas solicitudes de recuperación. Intente más tarde."
	msgErrorGenerarToken     = "Error al generar el token."
)

// Mailer delivers the recovery email. The concrete SMTP client lives in
// internal/mail.
type Mailer interface {
	SendRecoveryEmail(ctx context.Context, correo, url string) error
}

type Server struct {
	cfg        config.Config
	personas   *service.PersonaService
	matriculas *service.MatriculaService
	mailer     Mailer
	limiter    *ratelimit.Limiter
}

func NewServer(cfg config.Config, personas *service.PersonaService, matriculas *service.MatriculaService, mailer Mailer, limiter *ratelimit.Limiter) *Server {
	return &Server{
		cfg:        cfg,
		personas:   personas,
		matriculas: matriculas,
		mailer:     mailer,
		limiter:    limiter,
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/persona", func(r chi.Router) {
		r.With(s.authMiddleware).Post("/obtenerPersona", s.handleObtenerPersona)
		r.With(s.authMiddleware).Post("/registrarPersona", s.handleRegistrarPersona)
		r.With(s.authMiddleware).Post("/actualizarContrasena", s.handleActualizarContrasena)
		r.Post("/solicitar-recuperacion", s.handleSolicitarRecuperacion)
		r.Post("/restablecer-con-token", s.handleRestablecerConToken)
		r.Post("/login", s.handleLogin)
	})

	r.Route("/api/matricula", func(r chi.Router) {
		r.Post("/obtenerMatricula", s.handleObtenerMatricula)
		r.Post("/realizarMatricula", s.handleRealizarMatricula)
	})

	return r
}

// Persona

type personaData struct {
	ID              string  `json:"id"`
	Nombre          string  `json:"nombre"`
	SegundoNombre   *string `json:"segundoNombre,omitempty"`
	PrimerApellido  string  `json:"primerApellido"`
	SegundoApellido *string `json:"segundoApellido,omitempty"`
	Correo          string  `json:"correo"`
	RolID           int     `json:"rolId"`
	NombreRol       string  `json:"nombreRol"`
	Cargo           *string `json:"cargo,omitempty"`
}

func mapPersona(persona model.Persona) personaData {
	return personaData{
		ID:              persona.ID,
		Nombre:          persona.Nombre,
		SegundoNombre:   persona.SegundoNombre,
		PrimerApellido:  persona.PrimerApellido,
		SegundoApellido: persona.SegundoApellido,
		Correo:          persona.Correo,
		RolID:           persona.RolID,
		NombreRol:       persona.NombreRol,
		Cargo:           persona.Cargo,
	}
}

type obtenerPersonaRequest struct {
	ID string `json:"id"`
}

type obtenerPersonaResponse struct {
	Resultado      bool         `json:"resultado"`
	ListaDeErrores []string     `json:"listaDeErrores,omitempty"`
	Persona        *personaData `json:"persona,omitempty"`
}

func (s *Server) handleObtenerPersona(w http.ResponseWriter, r *http.Request) {
	var req obtenerPersonaRequest
	if err := decodeJSON(r, &req); err != nil {
		writeErrores(w, http.StatusBadRequest, msgSolicitudNula)
		return
	}

	result := s.personas.ObtenerPersona(r.Context(), req.ID)
	if !result.Resultado {
		writeErrores(w, http.StatusBadRequest, result.ListaDeErrores...)
		return
	}

	persona := mapPersona(result.Valor)
	writeJSON(w, http.StatusOK, obtenerPersonaResponse{Resultado: true, Persona: &persona})
}

type registrarPersonaRequest struct {
	Nombre          string  `json:"nombre"`
	SegundoNombre   *string `json:"segundoNombre,omitempty"`
	PrimerApellido  string  `json:"primerApellido"`
	SegundoApellido *string `json:"segundoApellido,omitempty"`
	Correo          string  `json:"correo"`
	Contrasena      string  `json:"contrasena"`
	RolID           int     `json:"rolId,omitempty"`
	NombreRol       string  `json:"nombreRol,omitempty"`
	Cargo           *string `json:"cargo,omitempty"`
}

type registrarPersonaResponse struct {
	Resultado      bool     `json:"resultado"`
	ListaDeErrores []string `json:"listaDeErrores,omitempty"`
	ID             string   `json:"id,omitempty"`
}

func (s *Server) handleRegistrarPersona(w http.ResponseWriter, r *http.Request) {
	var req registrarPersonaRequest
	if err := decodeJSON(r, &req); err != nil {
		writeErrores(w, http.StatusBadRequest, msgSolicitudNula)
		return
	}

	result := s.personas.RegistrarPersona(r.Context(), service.RegistroPersona{
		Nombre:          req.Nombre,
		SegundoNombre:   req.SegundoNombre,
		PrimerApellido:  req.PrimerApellido,
		SegundoApellido: req.SegundoApellido,
		Correo:          req.Correo,
		Contrasena:      req.Contrasena,
		RolID:           req.RolID,
		NombreRol:       req.NombreRol,
		Cargo:           req.Cargo,
	})
	if !result.Resultado {
		writeErrores(w, http.StatusBadRequest, result.ListaDeErrores...)
		return
	}

	writeJSON(w, http.StatusOK, registrarPersonaResponse{Resultado: true, ID: result.Valor})
}

type actualizarContrasenaRequest struct {
	Correo           string `json:"correo"`
	ContrasenaActual string `json:"contrasenaActual"`
	ContrasenaNueva  string `json:"contrasenaNueva"`
}

func (s *Server) handleActualizarContrasena(w http.ResponseWriter, r *http.Request) {
	var req actualizarContrasenaRequest
	if err := decodeJSON(r, &req); err != nil {
		writeErrores(w, http.StatusBadRequest, msgSolicitudNula)
		return
	}
	if strings.TrimSpace(req.Correo) == "" || req.ContrasenaActual == "" || req.ContrasenaNueva == "" {
		writeErrores(w, http.StatusBadRequest, msgSolicitudNula)
		return
	}

	result := s.personas.ActualizarContrasena(r.Context(), req.Correo, req.ContrasenaActual, req.ContrasenaNueva)
	if !result.Resultado {
		writeErrores(w, http.StatusBadRequest, result.ListaDeErrores...)
		return
	}

	writeMensaje(w, http.StatusOK, msgContrasenaActualizada)
}

// Recuperación de contraseña

type solicitarRecuperacionRequest struct {
	Correo string `json:"correo"`
}

func (s *Server) handleSolicitarRecuperacion(w http.ResponseWriter, r *http.Request) {
	var req solicitarRecuperacionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeErrores(w, http.StatusBadRequest, msgSolicitudNula)
		return
	}

	correo := strings.TrimSpace(strings.ToLower(req.Correo))
	if correo == "" {
		writeErrores(w, http.StatusBadRequest, msgCorreoRequerido)
		return
	}

	if !s.limiter.Allow(r.Context(), correo) {
		writeErrores(w, http.StatusTooManyRequests, msgDemasiadasSolicitudes)
		return
	}

	existencia := s.personas.ExistePersonaPorCorreo(r.Context(), correo)
	if !existencia.Resultado {
		writeErrores(w, http.StatusInternalServerError, msgErrorVerificarCorreo)
		return
	}
	if !existencia.Valor {
		writeErrores(w, http.StatusNotFound, msgCorreoNoRegistrado)
		return
	}

	token, err := auth.NewRecoveryToken(s.cfg.JWTSecret, s.cfg.JWTIssuer, s.cfg.RecoveryTokenTTL, correo)
	if err != nil {
		writeErrores(w, http.StatusInternalServerError, msgErrorGenerarToken)
		return
	}

	url := s.cfg.RecoveryURLBase + "?token=" + token
	if err := s.mailer.SendRecoveryEmail(r.Context(), correo, url); err != nil {
		writeErrores(w, http.StatusInternalServerError, msgEnvioCorreoFallido)
		return
	}

	writeMensaje(w, http.StatusOK, msgCorreoEnviado)
}

type restablecerConTokenRequest struct {
	Token           string `json:"token"`
	ContrasenaNueva string `json:"contrasenaNueva"`
}

func (s *Server) handleRestablecerConToken(w http.ResponseWriter, r *http.Request) {
	var req restablecerConTokenRequest
	if err := decodeJSON(r, &req); err != nil {
		writeErrores(w, http.StatusBadRequest, msgSolicitudNula)
		return
	}
	if strings.TrimSpace(req.Token) == "" || req.ContrasenaNueva == "" {
		writeErrores(w, http.StatusBadRequest, msgTokenYContrasena)
		return
	}
	if len(req.ContrasenaNueva) < service.MinContrasena {
		writeErrores(w, http.StatusBadRequest, service.MsgContrasenaCorta)
		return
	}

	claims, err := auth.ParseToken(s.cfg.JWTSecret, req.Token)
	if err != nil {
		writeErrores(w, http.StatusBadRequest, "Token inválido o expirado: "+err.Error())
		return
	}
	if claims.Correo == "" {
		writeErrores(w, http.StatusBadRequest, msgTokenSinCorreo)
		return
	}
	if claims.Uso != auth.UsoRecuperacion {
		writeErrores(w, http.StatusBadRequest, msgTokenNoRecuperacion)
		return
	}

	result := s.personas.ActualizarContrasenaPorCorreo(r.Context(), claims.Correo, req.ContrasenaNueva)
	if !result.Resultado {
		writeErrores(w, http.StatusInternalServerError,
			"No se pudo actualizar la contraseña: "+strings.Join(result.ListaDeErrores, "; "))
		return
	}

	writeMensaje(w, http.StatusOK, msgContrasenaActualizada)
}

// Login

type loginRequest struct {
	Correo     string `json:"correo"`
	Contrasena string `json:"contrasena"`
}

type loginResponse struct {
	Resultado      bool          `json:"resultado"`
	ListaDeErrores []string      `json:"listaDeErrores,omitempty"`
	Token          string        `json:"token,omitempty"`
	Persona        *loginPersona `json:"persona,omitempty"`
}

type loginPersona struct {
	ID             string `json:"id"`
	Nombre         string `json:"nombre"`
	PrimerApellido string `json:"primerApellido"`
	Correo         string `json:"correo"`
	NombreRol      string `json:"nombreRol"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeErrores(w, http.StatusBadRequest, msgSolicitudNula)
		return
	}
	if strings.TrimSpace(req.Correo) == "" || req.Contrasena == "" {
		writeErrores(w, http.StatusBadRequest, msgCredencialesFaltantes)
		return
	}

	result := s.personas.ValidarLogin(r.Context(), req.Correo, req.Contrasena)
	if !result.Resultado {
		writeErrores(w, http.StatusUnauthorized, result.ListaDeErrores...)
		return
	}

	persona := result.Valor
	token, err := auth.NewLoginToken(s.cfg.JWTSecret, s.cfg.JWTIssuer, s.cfg.LoginTokenTTL, persona.Correo, persona.NombreRol)
	if err != nil {
		writeErrores(w, http.StatusInternalServerError, msgErrorGenerarToken)
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{
		Resultado: true,
		Token:     token,
		Persona: &loginPersona{
			ID:             persona.ID,
			Nombre:         persona.Nombre,
			PrimerApellido: persona.PrimerApellido,
			Correo:         persona.Correo,
			NombreRol:      persona.NombreRol,
		},
	})
}

// Matrícula

type matriculaData struct {
	ID             string `json:"id"`
	PersonaID      string `json:"personaId"`
	Periodo        string `json:"periodo"`
	Grado          string `json:"grado"`
	Estado         string `json:"estado"`
	FechaMatricula string `json:"fechaMatricula"`
}

func mapMatricula(matricula model.Matricula) matriculaData {
	return matriculaData{
		ID:             matricula.ID,
		PersonaID:      matricula.PersonaID,
		Periodo:        matricula.Periodo,
		Grado:          matricula.Grado,
		Estado:         matricula.Estado,
		FechaMatricula: matricula.FechaMatricula.UTC().Format(time.RFC3339),
	}
}

type obtenerMatriculaRequest struct {
	PersonaID string `json:"personaId"`
}

type matriculaResponse struct {
	Resultado      bool           `json:"resultado"`
	ListaDeErrores []string       `json:"listaDeErrores,omitempty"`
	Matricula      *matriculaData `json:"matricula,omitempty"`
}

func (s *Server) handleObtenerMatricula(w http.ResponseWriter, r *http.Request) {
	var req obtenerMatriculaRequest
	if err := decodeJSON(r, &req); err != nil {
		writeErrores(w, http.StatusBadRequest, msgSolicitudNula)
		return
	}

	result := s.matriculas.BuscarMatricula(r.Context(), req.PersonaID)
	if !result.Resultado {
		writeErrores(w, http.StatusBadRequest, result.ListaDeErrores...)
		return
	}

	matricula := mapMatricula(result.Valor)
	writeJSON(w, http.StatusOK, matriculaResponse{Resultado: true, Matricula: &matricula})
}

type realizarMatriculaRequest struct {
	PersonaID string `json:"personaId"`
	Periodo   string `json:"periodo"`
	Grado     string `json:"grado"`
}

func (s *Server) handleRealizarMatricula(w http.ResponseWriter, r *http.Request) {
	var req realizarMatriculaRequest
	if err := decodeJSON(r, &req); err != nil {
		writeErrores(w, http.StatusBadRequest, msgSolicitudNula)
		return
	}

	result := s.matriculas.Matricular(r.Context(), service.SolicitudMatricula{
		PersonaID: req.PersonaID,
		Periodo:   req.Periodo,
		Grado:     req.Grado,
	})
	if !result.Resultado {
		writeErrores(w, http.StatusBadRequest, result.ListaDeErrores...)
		return
	}

	matricula := mapMatricula(result.Valor)
	writeJSON(w, http.StatusOK, matriculaResponse{Resultado: true, Matricula: &matricula})
}

// Auth

// authMiddleware guards the identity-mutating endpoints with a login bearer
// token. Recovery tokens are rejected here: they only prove ownership of an
// email address.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r.Header.Get("Authorization"))
		if token == "" {
			writeErrores(w, http.StatusUnauthorized, msgTokenInvalido)
			return
		}

		claims, err := auth.ParseToken(s.cfg.JWTSecret, token)
		if err != nil || claims.Uso != auth.UsoLogin {
			writeErrores(w, http.StatusUnauthorized, msgTokenInvalido)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func bearerToken(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// Helpers

type mensajeResponse struct {
	Resultado bool   `json:"resultado"`
	Mensaje   string `json:"mensaje"`
}

type erroresResponse struct {
	Resultado      bool     `json:"resultado"`
	ListaDeErrores []string `json:"listaDeErrores"`
}

func decodeJSON(r *http.Request, out interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(out)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeMensaje(w http.ResponseWriter, status int, mensaje string) {
	writeJSON(w, status, mensajeResponse{Resultado: true, Mensaje: mensaje})
}

func writeErrores(w http.ResponseWriter, status int, errores ...string) {
	writeJSON(w, status, erroresResponse{Resultado: false, ListaDeErrores: errores})
}

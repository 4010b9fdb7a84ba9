package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound            = errors.New("recurso no encontrado")
	ErrInvalidInput        = errors.New("entrada inválida")
	ErrUnauthorized        = errors.New("no autorizado")
	ErrRateLimited         = errors.New("límite de mensajes excedido")
	ErrAllModelsFailed     = errors.New("todos los modelos fallaron")
	ErrModelUnavailable    = errors.New("modelo no configurado")
	ErrToolExecution       = errors.New("falla al ejecutar herramienta")
	ErrCampaignUnavailable = errors.New("servicio de campañas no disponible")
)

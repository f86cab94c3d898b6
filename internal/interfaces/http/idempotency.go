package http

import (
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/jaldana18/inventory-ledger-api/internal/application/ledger"
)

// HeaderOperationID header opcional en endpoints mutantes: un cliente que
// reintenta tras un timeout manda el mismo id y recibe la respuesta original
// en vez de aplicar la operación dos veces.
const HeaderOperationID = "X-Operation-Id"

// HeaderIdempotentReplay marca las respuestas servidas desde el almacén.
const HeaderIdempotentReplay = "X-Idempotent-Replay"

const idempotencyTTL = 24 * time.Hour

// respuesta serializada en el almacén de idempotencia
type storedResponse struct {
	Status int             `json:"status"`
	Body   json.RawMessage `json:"body"`
}

// tryReplay busca el operation id del request en el almacén. Si ya hay una
// respuesta guardada la escribe y devuelve true. Con store nil (Redis no
// configurado) o sin header, no hace nada. La clave incluye empresa y usuario
// del actor: el mismo operation id en manos de dos clientes distintos son dos
// operaciones distintas, nunca una respuesta compartida.
func tryReplay(c *fiber.Ctx, store ledger.IdempotencyStore, scope string) (bool, string) {
	if store == nil {
		return false, ""
	}
	opID := c.Get(HeaderOperationID)
	if opID == "" {
		return false, ""
	}
	actor := ActorFromCtx(c)
	key := store.Key(actor.CompanyID, actor.UserID, scope, opID)
	raw, err := store.Get(c.Context(), key)
	if err != nil {
		// el almacén caído no debe tumbar la operación
		log.Warn().Err(err).Str("key", key).Msg("idempotencia: fallo leyendo el almacén")
		return false, key
	}
	if raw == "" {
		return false, key
	}
	var stored storedResponse
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("idempotencia: respuesta almacenada corrupta")
		return false, key
	}
	c.Set(HeaderIdempotentReplay, "true")
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	_ = c.Status(stored.Status).Send(stored.Body)
	return true, key
}

// storeResult guarda la respuesta exitosa bajo la clave del operation id.
// Solo se almacenan éxitos: un error es seguro de reintentar.
func storeResult(c *fiber.Ctx, store ledger.IdempotencyStore, key string, status int, body any) {
	if store == nil || key == "" {
		return
	}
	raw, err := json.Marshal(body)
	if err != nil {
		return
	}
	payload, err := json.Marshal(storedResponse{Status: status, Body: raw})
	if err != nil {
		return
	}
	if _, err := store.SetNX(c.Context(), key, string(payload), idempotencyTTL); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("idempotencia: fallo guardando la respuesta")
	}
}

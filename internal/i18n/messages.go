package i18n

var catalog = map[string]map[string]string{
	"en": {
		ErrKeyInvalidRequest:      "Invalid request",
		ErrKeyInvalidRequestBody:  "Invalid request body",
		ErrKeyInternalError:       "An unexpected error occurred",
		ErrKeyNotFound:            "Not found",
		ErrKeyTimeout:             "The request took too long to complete",
		ErrKeyRateLimitExceeded:   "Too many requests, please try again later",
		ErrKeyIdempotencyInFlight: "A request with this Idempotency-Key is still being processed",
		ErrKeyIdempotencyReused:   "This Idempotency-Key was already used with a different request body",
		ErrKeyIdempotencyKeyLong:  "Idempotency-Key must not exceed 255 characters",
		ErrKeyServiceUnavailable:  "Packing slip storage is not available",

		ErrKeyUnauthorized:   "Unauthorized",
		ErrKeyForbidden:      "Forbidden",
		ErrKeyTokenRequired:  "Authentication token is required",
		ErrKeyInvalidToken:   "Invalid or expired token",
		ErrKeyAPIKeyRequired: "API key is required",
		ErrKeyInvalidAPIKey:  "Invalid API key",

		ErrKeyInvalidCapacity:   "Box capacity must be a positive number within the allowed maximum",
		ErrKeyInvalidAllocation: "Every lot allocation must have a positive quantity",
		ErrKeyInvalidState:      "The invoice is not in a state that allows packing",
		ErrKeyGenerationBusy:    "A packing slip for this invoice is already being generated or exists",
		ErrKeyIntegrity:         "Lot allocations do not match the invoice quantities",
		ErrKeyStorageFailure:    "Packing data could not be read or saved, please retry",
		ErrKeyPackingNotFound:   "Invoice or packing slip not found",
	},
	"pt": {
		ErrKeyInvalidRequest:      "Requisição inválida",
		ErrKeyInvalidRequestBody:  "Corpo da requisição inválido",
		ErrKeyInternalError:       "Ocorreu um erro inesperado",
		ErrKeyNotFound:            "Não encontrado",
		ErrKeyTimeout:             "A requisição demorou demais para ser concluída",
		ErrKeyRateLimitExceeded:   "Muitas requisições, tente novamente mais tarde",
		ErrKeyIdempotencyInFlight: "Uma requisição com esta Idempotency-Key ainda está em processamento",
		ErrKeyIdempotencyReused:   "Esta Idempotency-Key já foi usada com outro corpo de requisição",
		ErrKeyIdempotencyKeyLong:  "A Idempotency-Key não pode exceder 255 caracteres",
		ErrKeyServiceUnavailable:  "O armazenamento de romaneios não está disponível",

		ErrKeyUnauthorized:   "Não autorizado",
		ErrKeyForbidden:      "Proibido",
		ErrKeyTokenRequired:  "Token de autenticação é obrigatório",
		ErrKeyInvalidToken:   "Token inválido ou expirado",
		ErrKeyAPIKeyRequired: "Chave de API é obrigatória",
		ErrKeyInvalidAPIKey:  "Chave de API inválida",

		ErrKeyInvalidCapacity:   "A capacidade da caixa deve ser um número positivo dentro do máximo permitido",
		ErrKeyInvalidAllocation: "Toda alocação de lote deve ter quantidade positiva",
		ErrKeyInvalidState:      "A fatura não está em um estado que permita embalagem",
		ErrKeyGenerationBusy:    "Um romaneio para esta fatura já está sendo gerado ou já existe",
		ErrKeyIntegrity:         "As alocações de lote não correspondem às quantidades da fatura",
		ErrKeyStorageFailure:    "Não foi possível ler ou salvar os dados de embalagem, tente novamente",
		ErrKeyPackingNotFound:   "Fatura ou romaneio não encontrado",
	},
	"nl": {
		ErrKeyInvalidRequest:      "Ongeldig verzoek",
		ErrKeyInvalidRequestBody:  "Ongeldige aanvraag body",
		ErrKeyInternalError:       "Er is een onverwachte fout opgetreden",
		ErrKeyNotFound:            "Niet gevonden",
		ErrKeyTimeout:             "Het verzoek duurde te lang",
		ErrKeyRateLimitExceeded:   "Te veel verzoeken, probeer het later opnieuw",
		ErrKeyIdempotencyInFlight: "Een verzoek met deze Idempotency-Key wordt nog verwerkt",
		ErrKeyIdempotencyReused:   "Deze Idempotency-Key is al gebruikt met een andere aanvraag body",
		ErrKeyIdempotencyKeyLong:  "Idempotency-Key mag niet langer zijn dan 255 tekens",
		ErrKeyServiceUnavailable:  "Opslag voor paklijsten is niet beschikbaar",

		ErrKeyUnauthorized:   "Niet geautoriseerd",
		ErrKeyForbidden:      "Verboden",
		ErrKeyTokenRequired:  "Authenticatietoken is vereist",
		ErrKeyInvalidToken:   "Ongeldig of verlopen token",
		ErrKeyAPIKeyRequired: "API-sleutel is vereist",
		ErrKeyInvalidAPIKey:  "Ongeldige API-sleutel",

		ErrKeyInvalidCapacity:   "Doosinhoud moet een positief getal binnen het toegestane maximum zijn",
		ErrKeyInvalidAllocation: "Elke partijtoewijzing moet een positieve hoeveelheid hebben",
		ErrKeyInvalidState:      "De factuur heeft geen status die inpakken toestaat",
		ErrKeyGenerationBusy:    "Er wordt al een paklijst voor deze factuur gemaakt of deze bestaat al",
		ErrKeyIntegrity:         "Partijtoewijzingen komen niet overeen met de factuurhoeveelheden",
		ErrKeyStorageFailure:    "Inpakgegevens konden niet worden gelezen of opgeslagen, probeer het opnieuw",
		ErrKeyPackingNotFound:   "Factuur of paklijst niet gevonden",
	},
}

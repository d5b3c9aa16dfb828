package dto

type SolicitarReciboRequest struct {
	// EmailDestino: optional — when present, the recibo worker mails the PDF.
	EmailDestino *string `json:"email_destino" validate:"omitempty,email"`
}

type ReciboResponse struct {
	ID           string  `json:"id"`
	OrdenID      string  `json:"orden_id"`
	Estado       string  `json:"estado"`
	PDFPath      *string `json:"pdf_path,omitempty"`
	EmailDestino *string `json:"email_destino,omitempty"`
	CreatedAt    string  `json:"created_at"`
}

type AdjuntoResponse struct {
	ID            string `json:"id"`
	OrdenID       string `json:"orden_id"`
	NombreArchivo string `json:"nombre_archivo"`
	TipoMime      string `json:"tipo_mime"`
	Tamano        int64  `json:"tamano"`
	CreatedAt     string `json:"created_at"`
}

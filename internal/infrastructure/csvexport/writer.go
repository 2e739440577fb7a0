// Package csvexport escribe el catálogo de productos como CSV en disco.
package csvexport

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/jhoicas/grocery-api/internal/application/ports"
	"github.com/jhoicas/grocery-api/internal/domain/entity"
)

// Header columnas del archivo exportado.
var Header = []string{"Name", "Stock Remaining", "Description", "Price"}

// Writer implementa ports.ArtifactWriter sobre un directorio local.
type Writer struct {
	dir string
}

var _ ports.ArtifactWriter = (*Writer)(nil)

// NewWriter construye el escritor; el directorio se crea al primer uso.
func NewWriter(dir string) *Writer {
	return &Writer{dir: dir}
}

// Path ruta del archivo de un trabajo.
func (w *Writer) Path(jobID string) string {
	return filepath.Join(w.dir, "product_export_"+jobID+".csv")
}

// WriteProducts escribe en un temporal y lo renombra al final: un lector nunca ve un archivo a medias.
func (w *Writer) WriteProducts(ctx context.Context, jobID string, products []*entity.Product) (string, error) {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return "", fmt.Errorf("csv: crear directorio: %w", err)
	}
	tmp, err := os.CreateTemp(w.dir, "product_export_*.tmp")
	if err != nil {
		return "", fmt.Errorf("csv: crear temporal: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if err := writeRows(ctx, csv.NewWriter(tmp), products); err != nil {
		_ = tmp.Close()
		return "", err
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("csv: cerrar temporal: %w", err)
	}

	path := w.Path(jobID)
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("csv: renombrar: %w", err)
	}
	return path, nil
}

func writeRows(ctx context.Context, cw *csv.Writer, products []*entity.Product) error {
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("csv: cabecera: %w", err)
	}
	for _, p := range products {
		if err := ctx.Err(); err != nil {
			return err
		}
		// La descripción del producto es su unidad de venta.
		record := []string{p.Name, strconv.Itoa(p.QuantityAvailable), p.UnitType, p.RatePerUnit.StringFixed(2)}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("csv: fila %d: %w", p.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

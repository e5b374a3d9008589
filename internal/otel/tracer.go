package otel

import (
	"go.opentelemetry.io/otel"

	"github.com/dtrann/clothify/internal/common"
)

var Tracer = otel.Tracer(common.AppClothifyApi)

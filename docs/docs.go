// Package docs registers the Swagger document served under /swagger. It is
// maintained by hand in the layout swag init emits; keep it in step with the
// handler annotations when routes change.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/admin/sync/{table}": {
            "post": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "Synchronize one table from its source",
                "parameters": [
                    {"type": "string", "description": "addresses, service_lines, outage_lines or outage_incidents", "name": "table", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ingest.Result"}},
                    "404": {"description": "Not Found", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "502": {"description": "Bad Gateway", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/incidents/nearby": {
            "get": {
                "produces": ["application/json"],
                "tags": ["incidents"],
                "summary": "Reported outage incidents within a radius, nearest first",
                "parameters": [
                    {"type": "number", "description": "latitude", "name": "lat", "in": "query", "required": true},
                    {"type": "number", "description": "longitude", "name": "lon", "in": "query", "required": true},
                    {"type": "number", "description": "radius in meters", "name": "radius", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/models.NearbyIncident"}}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/incidents/zip/{zip}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["incidents"],
                "summary": "Incident totals for one zip code",
                "parameters": [
                    {"type": "string", "description": "zip code", "name": "zip", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.ZipOutageSummary"}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/lines/{kind}/nearby": {
            "get": {
                "produces": ["application/json"],
                "tags": ["lines"],
                "summary": "Lines within a radius of a point, nearest first",
                "parameters": [
                    {"type": "string", "description": "service or outage", "name": "kind", "in": "path", "required": true},
                    {"type": "number", "description": "latitude", "name": "lat", "in": "query", "required": true},
                    {"type": "number", "description": "longitude", "name": "lon", "in": "query", "required": true},
                    {"type": "number", "description": "radius in meters", "name": "radius", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/models.NearbyLine"}}}
                }
            }
        },
        "/map/addresses": {
            "get": {
                "produces": ["application/json"],
                "tags": ["map"],
                "summary": "Addresses or clusters inside a viewport",
                "parameters": [
                    {"type": "number", "description": "south-west latitude", "name": "sw_lat", "in": "query", "required": true},
                    {"type": "number", "description": "south-west longitude", "name": "sw_lon", "in": "query", "required": true},
                    {"type": "number", "description": "north-east latitude", "name": "ne_lat", "in": "query", "required": true},
                    {"type": "number", "description": "north-east longitude", "name": "ne_lon", "in": "query", "required": true},
                    {"type": "integer", "description": "map zoom level", "name": "zoom", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.AddressMap"}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/map/clusters": {
            "get": {
                "produces": ["application/json"],
                "tags": ["map"],
                "summary": "Grid clusters of addresses inside a viewport",
                "parameters": [
                    {"type": "number", "description": "south-west latitude", "name": "sw_lat", "in": "query", "required": true},
                    {"type": "number", "description": "south-west longitude", "name": "sw_lon", "in": "query", "required": true},
                    {"type": "number", "description": "north-east latitude", "name": "ne_lat", "in": "query", "required": true},
                    {"type": "number", "description": "north-east longitude", "name": "ne_lon", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/models.AddressCluster"}}}
                }
            }
        },
        "/map/lines/{kind}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["map"],
                "summary": "Service or outage lines inside a viewport",
                "parameters": [
                    {"type": "string", "description": "service or outage", "name": "kind", "in": "path", "required": true},
                    {"type": "number", "description": "south-west latitude", "name": "sw_lat", "in": "query", "required": true},
                    {"type": "number", "description": "south-west longitude", "name": "sw_lon", "in": "query", "required": true},
                    {"type": "number", "description": "north-east latitude", "name": "ne_lat", "in": "query", "required": true},
                    {"type": "number", "description": "north-east longitude", "name": "ne_lon", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "GeoJSON FeatureCollection", "schema": {"type": "object"}}
                }
            }
        },
        "/outages/status": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["outages"],
                "summary": "Outage status of a watch list",
                "parameters": [
                    {"description": "address ids and optional threshold", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.StatusRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/models.OutageStatus"}}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/outages/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["outages"],
                "summary": "Outage status of one address",
                "parameters": [
                    {"type": "integer", "description": "address id", "name": "id", "in": "path", "required": true},
                    {"type": "number", "description": "outage threshold in meters", "name": "threshold", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.OutageStatus"}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/search": {
            "get": {
                "produces": ["application/json"],
                "tags": ["search"],
                "summary": "Search addresses by text and/or proximity",
                "parameters": [
                    {"type": "string", "description": "search term", "name": "q", "in": "query"},
                    {"type": "number", "description": "reference latitude", "name": "lat", "in": "query"},
                    {"type": "number", "description": "reference longitude", "name": "lon", "in": "query"},
                    {"type": "integer", "description": "maximum results", "name": "limit", "in": "query"},
                    {"type": "string", "description": "street or full", "name": "fields", "in": "query"},
                    {"type": "number", "description": "radius in meters around the reference point", "name": "radius", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/models.SearchResult"}}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        }
    },
    "definitions": {
        "handler.StatusRequest": {
            "type": "object",
            "properties": {
                "ids": {"type": "array", "items": {"type": "integer"}},
                "threshold_meters": {"type": "number"}
            }
        },
        "ingest.Result": {
            "type": "object",
            "properties": {
                "table": {"type": "string"},
                "rows": {"type": "integer"},
                "skipped": {"type": "integer"},
                "not_modified": {"type": "boolean"},
                "duration_ns": {"type": "integer"}
            }
        },
        "models.Address": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "address_line_1": {"type": "string"},
                "address_line_2": {"type": "string"},
                "city": {"type": "string"},
                "county": {"type": "string"},
                "zipcode": {"type": "string"},
                "latitude": {"type": "number"},
                "longitude": {"type": "number"}
            }
        },
        "models.AddressCluster": {
            "type": "object",
            "properties": {
                "latitude": {"type": "number"},
                "longitude": {"type": "number"},
                "count": {"type": "integer"}
            }
        },
        "models.AddressMap": {
            "type": "object",
            "properties": {
                "clustered": {"type": "boolean"},
                "addresses": {"type": "array", "items": {"$ref": "#/definitions/models.Address"}},
                "clusters": {"type": "array", "items": {"$ref": "#/definitions/models.AddressCluster"}}
            }
        },
        "models.LineString": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "coordinates": {"type": "array", "items": {"type": "array", "items": {"type": "number"}}}
            }
        },
        "models.NearbyLine": {
            "type": "object",
            "properties": {
                "line": {"$ref": "#/definitions/models.LineString"},
                "distance_meters": {"type": "number"}
            }
        },
        "models.NearbyIncident": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "customers_affected": {"type": "integer"},
                "outage_cause": {"type": "string"},
                "outage_start": {"type": "string", "format": "date-time"},
                "county": {"type": "string"},
                "zipcode": {"type": "string"},
                "latitude": {"type": "number"},
                "longitude": {"type": "number"},
                "distance_meters": {"type": "number"},
                "distance_text": {"type": "string"}
            }
        },
        "models.OutageStatus": {
            "type": "object",
            "properties": {
                "address_id": {"type": "integer"},
                "address_found": {"type": "boolean"},
                "distance_meters": {"type": "number"},
                "distance_text": {"type": "string"},
                "threshold_meters": {"type": "number"},
                "status": {"type": "string", "enum": ["outage", "no_outage", "unknown"]}
            }
        },
        "models.ZipOutageSummary": {
            "type": "object",
            "properties": {
                "zipcode": {"type": "string"},
                "incidents": {"type": "integer"},
                "customers_affected": {"type": "integer"},
                "earliest_start": {"type": "string", "format": "date-time"},
                "affected": {"type": "boolean"}
            }
        },
        "models.SearchResult": {
            "type": "object",
            "properties": {
                "address": {"$ref": "#/definitions/models.Address"},
                "score": {"type": "number"},
                "distance_meters": {"type": "number"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Outage API",
	Description:      "Address search, map viewport queries, outage proximity status and reported incidents.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}

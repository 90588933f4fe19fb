// Package configs は、バイナリに埋め込む設定ファイルです。
package configs

import _ "embed"

// Script は、最初に再生する台本です。
//
//go:embed script.yaml
var Script []byte

// Persona は、返信を生成する語り手のプロフィールです。
//
//go:embed persona.yaml
var Persona []byte

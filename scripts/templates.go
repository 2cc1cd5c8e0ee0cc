package scripts

// The templates reproduce the deployed script layout byte for byte. Case
// branches are rendered in Go and joined here, so an empty application list
// still leaves its (empty) line in place.

const usageTemplate = `{{ define "usage" }}Usage: $0 {{ join "|" .Applications }}{{ if .Aggregate }}|--all{{ end }}{{ end }}`

const headerTemplate = `{{ define "header" }}#!/usr/bin/env bash

# Generated: {{ .Generated }}
# Docker image tag: {{ .Image }}

set -o errexit

cd $(dirname $0)/..

typeset app=$1
if [ "$app" == "" ]; then
  >&2 echo "{{ template "usage" . }}"
  exit 1
fi
{{ end }}`

const startTemplate = `{{ template "header" . }}shift

case $app in
{{ join "\n" .Cases }}
  '--all')
{{ join "\n" .All }}
    ;;
  *)
    >&2 echo "{{ template "usage" . }}"
    exit 1
esac
`

const runTemplate = `{{ template "header" . }}shift

case $app in
{{ join "\n" .Cases }}
  *)
    >&2 echo "{{ template "usage" . }}"
    exit 1
esac
`

const stopTemplate = `{{ template "header" . }}
case $app in
{{ join "\n" .Cases }}
  '--all')
{{ join "\n" .All }}
    ;;
  *)
    >&2 echo "{{ template "usage" . }}"
    exit 1
esac
`

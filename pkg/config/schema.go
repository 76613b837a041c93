package config

// Schema is the JSON schema for validating configuration files
const Schema = `{
    "$schema": "http://json-schema.org/draft-07/schema#",
    "type": "object",
    "additionalProperties": false,
    "definitions": {
        "segment": {
            "type": "string",
            "pattern": "^[A-Za-z0-9_][A-Za-z0-9._-]*$"
        }
    },
    "properties": {
        "remote_user": {
            "type": "string",
            "minLength": 1,
            "description": "User to log in as on the web server"
        },
        "remote_host": {
            "type": "string",
            "minLength": 1,
            "description": "Web server host name or address"
        },
        "port": {
            "type": "integer",
            "minimum": 1,
            "maximum": 65535
        },
        "domain": {
            "$ref": "#/definitions/segment",
            "description": "Directory under the web root"
        },
        "subdomain": {
            "$ref": "#/definitions/segment",
            "description": "Live directory under the domain directory"
        },
        "web_root": {
            "type": "string",
            "pattern": "^/"
        },
        "output_dir": {"$ref": "#/definitions/segment"},
        "archive_name": {"$ref": "#/definitions/segment"},
        "build_command": {
            "type": "string",
            "minLength": 1
        },
        "work_dir": {"type": "string"},
        "transport": {
            "type": "string",
            "enum": ["ssh", "local"]
        },
        "key_path": {"type": "string"},
        "key_passphrase": {"type": "string"},
        "password": {"type": "string"},
        "known_hosts": {"type": "string"},
        "insecure_ignore_host_key": {"type": "boolean"},
        "use_agent": {"type": "boolean"},
        "connect_timeout": {
            "type": "string",
            "pattern": "^[0-9]+(\\.[0-9]+)?(ms|s|m|h)$"
        },
        "log_level": {
            "type": "string",
            "enum": ["debug", "info", "warn", "error"]
        },
        "log_format": {
            "type": "string",
            "enum": ["json", "console"]
        }
    }
}`

// Package catalog loads endpoint declarations from YAML.
//
//	client:
//	  name: things
//	  base_url: https://api.example.com
//	  timeout: 10s
//	endpoints:
//	  get_things:
//	    method: GET
//	    path: /things/{user_id}/
//	    query:
//	      - {name: type, required: true}
//	      - {name: limit, default: 25}
//	      - {name: ts, producer: now}
//	    headers:
//	      Authorization: Bearer {access_token}
//	  create_pet:
//	    method: POST
//	    path: /pets
//	    body: {type: form, required: true}
//
// Endpoints keep their document order. Every endpoint is validated while
// loading, so a catalogue that loads can always be built into a client.
package catalog

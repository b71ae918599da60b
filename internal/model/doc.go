// Package model provides the entity and identifier types shared by every
// boardctl package.
//
// This package contains type definitions only. All other internal packages
// import model; model imports nothing internal.
//
// Key design constraints:
//   - Every entity carries a dual identifier (ID) with a remote side and a
//     local (mirror) side. Either side may be absent.
//   - An absent side is the empty string and never matches anything,
//     including another absent side.
//   - All JSON tags use snake_case. Entities double as mirror documents.
//   - Instants are stored as Unix seconds (int64); 0 means unset.
package model

package syntax

// Kind is the closed set of node kinds the rewriters dispatch on.
// Grammar symbols outside the set map to KindOther (named) or KindToken (anonymous).
type Kind uint16

const (
	KindOther Kind = iota
	KindToken
	KindProgram
	KindComment
	KindError
	KindInterfaceDeclaration
	KindInterfaceBody
	KindExtendsTypeClause
	KindExtendsClause
	KindImplementsClause
	KindClassHeritage
	KindPropertySignature
	KindMethodSignature
	KindAbstractMethodSignature
	KindCallSignature
	KindConstructSignature
	KindIndexSignature
	KindTypeAnnotation
	KindOptionalTypeAnnotation
	KindLexicalDeclaration
	KindVariableDeclaration
	KindVariableDeclarator
	KindClassDeclaration
	KindAbstractClassDeclaration
	KindClass
	KindClassBody
	KindPublicFieldDefinition
	KindFieldDefinition
	KindMethodDefinition
	KindClassStaticBlock
	KindAccessibilityModifier
	KindOverrideModifier
	KindDecorator
	KindFormalParameters
	KindRequiredParameter
	KindOptionalParameter
	KindRestPattern
	KindObjectPattern
	KindArrayPattern
	KindAssignmentPattern
	KindIdentifier
	KindPropertyIdentifier
	KindPrivatePropertyIdentifier
	KindShorthandPropertyIdentifier
	KindShorthandPropertyIdentifierPattern
	KindComputedPropertyName
	KindTypeIdentifier
	KindThis
	KindSuper
	KindArrowFunction
	KindFunctionDeclaration
	KindGeneratorFunctionDeclaration
	KindFunctionExpression
	KindFunction
	KindGeneratorFunction
	KindFunctionSignature
	KindTypeAliasDeclaration
	KindAsExpression
	KindSatisfiesExpression
	KindTypeAssertion
	KindNonNullExpression
	KindEnumDeclaration
	KindEnumBody
	KindEnumAssignment
	KindExportStatement
	KindExportClause
	KindExportSpecifier
	KindNamespaceExport
	KindImportStatement
	KindImportClause
	KindNamedImports
	KindImportSpecifier
	KindNamespaceImport
	KindImportAlias
	KindImportRequireClause
	KindAmbientDeclaration
	KindInternalModule
	KindModule
	KindNestedIdentifier
	KindStatementBlock
	KindExpressionStatement
	KindReturnStatement
	KindEmptyStatement
	KindIfStatement
	KindJSXText
	KindJSXElement
	KindCallExpression
	KindNewExpression
	KindMemberExpression
	KindSubscriptExpression
	KindArguments
	KindString
	KindStringFragment
	KindTemplateString
	KindNumber
	KindTrue
	KindFalse
	KindNull
	KindUndefined
	KindRegex
	KindObject
	KindArray
	KindPair
	KindMethodShorthand
	KindSpreadElement
	KindBinaryExpression
	KindUnaryExpression
	KindUpdateExpression
	KindParenthesizedExpression
	KindAwaitExpression
	KindAssignmentExpression
	KindTernaryExpression
	KindSequenceExpression
	KindPredefinedType
	KindGenericType
	KindTypeArguments
	KindTypeParameters
	KindTypeParameter
	KindNestedTypeIdentifier
	KindArrayType
	KindTupleType
	KindTupleParameter
	KindOptionalTupleParameter
	KindOptionalType
	KindRestType
	KindUnionType
	KindIntersectionType
	KindFunctionType
	KindConstructorType
	KindObjectType
	KindLiteralType
	KindParenthesizedType
	KindReadonlyType
	KindTypeQuery
	KindIndexTypeQuery
	KindLookupType
	KindConditionalType
	KindTemplateLiteralType
	KindInferType
	KindTypePredicate
	KindTypePredicateAnnotation
	KindAssertsAnnotation
	KindThisType
	KindExistentialType
	KindMappedTypeClause
	KindConstraint
	KindDefaultType
)

var kindBySymbol = map[string]Kind{
	"program":                               KindProgram,
	"comment":                               KindComment,
	"ERROR":                                 KindError,
	"interface_declaration":                 KindInterfaceDeclaration,
	"interface_body":                        KindInterfaceBody,
	"extends_type_clause":                   KindExtendsTypeClause,
	"extends_clause":                        KindExtendsClause,
	"implements_clause":                     KindImplementsClause,
	"class_heritage":                        KindClassHeritage,
	"property_signature":                    KindPropertySignature,
	"method_signature":                      KindMethodSignature,
	"abstract_method_signature":             KindAbstractMethodSignature,
	"call_signature":                        KindCallSignature,
	"construct_signature":                   KindConstructSignature,
	"index_signature":                       KindIndexSignature,
	"type_annotation":                       KindTypeAnnotation,
	"opting_type_annotation":                KindOptionalTypeAnnotation,
	"lexical_declaration":                   KindLexicalDeclaration,
	"variable_declaration":                  KindVariableDeclaration,
	"variable_declarator":                   KindVariableDeclarator,
	"class_declaration":                     KindClassDeclaration,
	"abstract_class_declaration":            KindAbstractClassDeclaration,
	"class":                                 KindClass,
	"class_body":                            KindClassBody,
	"public_field_definition":               KindPublicFieldDefinition,
	"field_definition":                      KindFieldDefinition,
	"method_definition":                     KindMethodDefinition,
	"class_static_block":                    KindClassStaticBlock,
	"accessibility_modifier":                KindAccessibilityModifier,
	"override_modifier":                     KindOverrideModifier,
	"decorator":                             KindDecorator,
	"formal_parameters":                     KindFormalParameters,
	"required_parameter":                    KindRequiredParameter,
	"optional_parameter":                    KindOptionalParameter,
	"rest_pattern":                          KindRestPattern,
	"object_pattern":                        KindObjectPattern,
	"array_pattern":                         KindArrayPattern,
	"assignment_pattern":                    KindAssignmentPattern,
	"identifier":                            KindIdentifier,
	"property_identifier":                   KindPropertyIdentifier,
	"private_property_identifier":           KindPrivatePropertyIdentifier,
	"shorthand_property_identifier":         KindShorthandPropertyIdentifier,
	"shorthand_property_identifier_pattern": KindShorthandPropertyIdentifierPattern,
	"computed_property_name":                KindComputedPropertyName,
	"type_identifier":                       KindTypeIdentifier,
	"this":                                  KindThis,
	"super":                                 KindSuper,
	"arrow_function":                        KindArrowFunction,
	"function_declaration":                  KindFunctionDeclaration,
	"generator_function_declaration":        KindGeneratorFunctionDeclaration,
	"function_expression":                   KindFunctionExpression,
	"function":                              KindFunction,
	"generator_function":                    KindGeneratorFunction,
	"function_signature":                    KindFunctionSignature,
	"type_alias_declaration":                KindTypeAliasDeclaration,
	"as_expression":                         KindAsExpression,
	"satisfies_expression":                  KindSatisfiesExpression,
	"type_assertion":                        KindTypeAssertion,
	"non_null_expression":                   KindNonNullExpression,
	"enum_declaration":                      KindEnumDeclaration,
	"enum_body":                             KindEnumBody,
	"enum_assignment":                       KindEnumAssignment,
	"export_statement":                      KindExportStatement,
	"export_clause":                         KindExportClause,
	"export_specifier":                      KindExportSpecifier,
	"namespace_export":                      KindNamespaceExport,
	"import_statement":                      KindImportStatement,
	"import_clause":                         KindImportClause,
	"named_imports":                         KindNamedImports,
	"import_specifier":                      KindImportSpecifier,
	"namespace_import":                      KindNamespaceImport,
	"import_alias":                          KindImportAlias,
	"import_require_clause":                 KindImportRequireClause,
	"ambient_declaration":                   KindAmbientDeclaration,
	"internal_module":                       KindInternalModule,
	"module":                                KindModule,
	"nested_identifier":                     KindNestedIdentifier,
	"statement_block":                       KindStatementBlock,
	"expression_statement":                  KindExpressionStatement,
	"return_statement":                      KindReturnStatement,
	"empty_statement":                       KindEmptyStatement,
	"if_statement":                          KindIfStatement,
	"jsx_text":                              KindJSXText,
	"jsx_element":                           KindJSXElement,
	"call_expression":                       KindCallExpression,
	"new_expression":                        KindNewExpression,
	"member_expression":                     KindMemberExpression,
	"subscript_expression":                  KindSubscriptExpression,
	"arguments":                             KindArguments,
	"string":                                KindString,
	"string_fragment":                       KindStringFragment,
	"template_string":                       KindTemplateString,
	"number":                                KindNumber,
	"true":                                  KindTrue,
	"false":                                 KindFalse,
	"null":                                  KindNull,
	"undefined":                             KindUndefined,
	"regex":                                 KindRegex,
	"object":                                KindObject,
	"array":                                 KindArray,
	"pair":                                  KindPair,
	"method_shorthand":                      KindMethodShorthand,
	"spread_element":                        KindSpreadElement,
	"binary_expression":                     KindBinaryExpression,
	"unary_expression":                      KindUnaryExpression,
	"update_expression":                     KindUpdateExpression,
	"parenthesized_expression":              KindParenthesizedExpression,
	"await_expression":                      KindAwaitExpression,
	"assignment_expression":                 KindAssignmentExpression,
	"ternary_expression":                    KindTernaryExpression,
	"sequence_expression":                   KindSequenceExpression,
	"predefined_type":                       KindPredefinedType,
	"generic_type":                          KindGenericType,
	"type_arguments":                        KindTypeArguments,
	"type_parameters":                       KindTypeParameters,
	"type_parameter":                        KindTypeParameter,
	"nested_type_identifier":                KindNestedTypeIdentifier,
	"array_type":                            KindArrayType,
	"tuple_type":                            KindTupleType,
	"tuple_parameter":                       KindTupleParameter,
	"optional_tuple_parameter":              KindOptionalTupleParameter,
	"optional_type":                         KindOptionalType,
	"rest_type":                             KindRestType,
	"union_type":                            KindUnionType,
	"intersection_type":                     KindIntersectionType,
	"function_type":                         KindFunctionType,
	"constructor_type":                      KindConstructorType,
	"object_type":                           KindObjectType,
	"literal_type":                          KindLiteralType,
	"parenthesized_type":                    KindParenthesizedType,
	"readonly_type":                         KindReadonlyType,
	"type_query":                            KindTypeQuery,
	"index_type_query":                      KindIndexTypeQuery,
	"lookup_type":                           KindLookupType,
	"conditional_type":                      KindConditionalType,
	"template_literal_type":                 KindTemplateLiteralType,
	"infer_type":                            KindInferType,
	"type_predicate":                        KindTypePredicate,
	"type_predicate_annotation":             KindTypePredicateAnnotation,
	"asserts_annotation":                    KindAssertsAnnotation,
	"this_type":                             KindThisType,
	"existential_type":                      KindExistentialType,
	"mapped_type_clause":                    KindMappedTypeClause,
	"constraint":                            KindConstraint,
	"default_type":                          KindDefaultType,
}

var kindNames = func() map[Kind]string {
	m := make(map[Kind]string, len(kindBySymbol)+2)
	for sym, k := range kindBySymbol {
		m[k] = sym
	}
	m[KindOther] = "other"
	m[KindToken] = "token"
	return m
}()

// KindOf maps a grammar symbol to its Kind.
func KindOf(symbol string, named bool) Kind {
	if k, ok := kindBySymbol[symbol]; ok {
		// anonymous keyword tokens share spelling with some named kinds (this, null, ...)
		if named || k == KindComment {
			return k
		}
	}
	if named {
		return KindOther
	}
	return KindToken
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}
